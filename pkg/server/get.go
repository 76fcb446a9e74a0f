package server

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"storycraft/pkg/schema"
	"storycraft/pkg/utils"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Storycraft API",
		"status":  "ok",
	})
}

type optionsResponse struct {
	Categories []schema.Category `json:"categories"`
	Genres     []string          `json:"genres"`
	PoemStyles []string          `json:"poem_styles"`
	Tones      []string          `json:"tones"`
	Narrators  []schema.Narrator `json:"narrators"`
	Warning    string            `json:"warning,omitempty"`
}

// GET /api/options
func (s *Server) handleGetOptions(c echo.Context) error {
	resp := optionsResponse{
		Categories: schema.Categories,
		Genres:     s.Catalog.StoryGenres(),
		PoemStyles: s.Catalog.PoemStyles(),
		Tones:      schema.Tones,
		Narrators:  schema.Narrators,
	}
	if s.CatalogErr != nil {
		resp.Warning = s.CatalogErr.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetCatalogSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, schema.CatalogSchema)
}

func (s *Server) handleGetRequestSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, schema.RequestSchema)
}

// validID rejects identifiers that could leave the output directories.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

// GET /api/creations/:id/text
func (s *Server) handleGetText(c echo.Context) error {
	id := c.Param("id")
	if !validID(id) {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("invalid id"))
	}
	return s.attachment(c, s.Pipeline.Persister.TextPath(id), id+".txt")
}

// GET /api/creations/:id/document
func (s *Server) handleGetDocument(c echo.Context) error {
	id := c.Param("id")
	if !validID(id) {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("invalid id"))
	}
	return s.attachment(c, s.Pipeline.Persister.DocumentPath(id), id+".pdf")
}

func (s *Server) attachment(c echo.Context, path, name string) error {
	if !utils.Exists(path) {
		return c.JSON(http.StatusNotFound, utils.ErrJSON("creation not found"))
	}
	return c.Attachment(path, name)
}

// GET /api/archive
func (s *Server) handleGetArchive(c echo.Context) error {
	data, err := s.Pipeline.Persister.Archive.Read()
	if errors.Is(err, os.ErrNotExist) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed reading creation log"))
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, data)
}

// GET /api/archive/entries
func (s *Server) handleGetArchiveEntries(c echo.Context) error {
	entries, err := s.Pipeline.Persister.Archive.Entries()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed reading creation log"))
	}
	if entries == nil {
		entries = []schema.LogLine{}
	}
	return c.JSON(http.StatusOK, entries)
}
