package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"storycraft/pkg/pipeline"
	"storycraft/pkg/prompt"
	"storycraft/pkg/schema"
	"storycraft/pkg/utils"
)

// creationForm accepts both JSON bodies and form posts.
type creationForm struct {
	Category           string `json:"category" form:"category"`
	Style              string `json:"style" form:"style"`
	Tone               string `json:"tone" form:"tone"`
	Protagonist        string `json:"protagonist" form:"protagonist"`
	Setting            string `json:"setting" form:"setting"`
	Narrator           string `json:"narrator" form:"narrator"`
	SpecialRequirement string `json:"special_requirement" form:"special_requirement"`
}

func (f creationForm) request() (schema.CreationRequest, error) {
	category := schema.Story
	if f.Category != "" {
		var err error
		if category, err = schema.ParseCategory(f.Category); err != nil {
			return schema.CreationRequest{}, err
		}
	}
	narrator, err := schema.ParseNarrator(f.Narrator)
	if err != nil {
		return schema.CreationRequest{}, err
	}
	return schema.CreationRequest{
		Category:           category,
		StyleKey:           f.Style,
		Tone:               f.Tone,
		Protagonist:        f.Protagonist,
		Setting:            f.Setting,
		Narrator:           narrator,
		SpecialRequirement: f.SpecialRequirement,
	}, nil
}

type creationResponse struct {
	*pipeline.Outcome
	TextURL     string `json:"text_url,omitempty"`
	DocumentURL string `json:"document_url,omitempty"`
}

func newCreationResponse(out *pipeline.Outcome) creationResponse {
	resp := creationResponse{Outcome: out}
	base := "/api/creations/" + url.PathEscape(out.ID)
	if out.TextPath != "" {
		resp.TextURL = base + "/text"
	}
	if out.DocumentPath != "" {
		resp.DocumentURL = base + "/document"
	}
	return resp
}

// creationError maps pipeline errors onto a status and a JSON body.
func creationError(err error) (int, map[string]any) {
	body := utils.ErrJSON(err.Error())

	var verr *prompt.ValidationError
	var gerr *pipeline.GenerationFailure
	switch {
	case errors.As(err, &verr):
		body["fields"] = verr.Fields
		return http.StatusBadRequest, body
	case errors.As(err, &gerr):
		return http.StatusBadGateway, body
	}
	// Template faults are not the user's to fix.
	log.Error("creation failed", "error", err)
	return http.StatusInternalServerError, utils.ErrJSON("failed preparing the prompt")
}

func bindCreation(c echo.Context) (schema.CreationRequest, error) {
	var form creationForm
	if err := c.Bind(&form); err != nil {
		return schema.CreationRequest{}, err
	}
	return form.request()
}

// POST /api/creations
func (s *Server) handlePostCreation(c echo.Context) error {
	req, err := bindCreation(c)
	if err != nil {
		log.Error("invalid creation request", "error", err)
		return c.JSON(http.StatusBadRequest, utils.ErrJSON(err.Error()))
	}

	out, err := s.Pipeline.Create(c.Request().Context(), req)
	if err != nil {
		return c.JSON(creationError(err))
	}
	return c.JSON(http.StatusOK, newCreationResponse(out))
}

// POST /api/creations/stream
func (s *Server) handlePostCreationStream(c echo.Context) error {
	req, err := bindCreation(c)
	if err != nil {
		log.Error("invalid creation request", "error", err)
		return c.JSON(http.StatusBadRequest, utils.ErrJSON(err.Error()))
	}

	w, err := utils.NewSSEWriter(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON(err.Error()))
	}
	defer w.Close()

	out, err := s.Pipeline.CreateWithProgress(c.Request().Context(), req, func(stage pipeline.Stage) {
		_ = w.Event("stage", map[string]string{"stage": string(stage)})
	})
	if err != nil {
		status, body := creationError(err)
		body["status"] = status
		return w.Event("error", body)
	}
	return w.Event("result", newCreationResponse(out))
}
