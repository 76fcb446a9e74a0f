package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openai/openai-go/v3"

	"storycraft/pkg/catalog"
	"storycraft/pkg/persist"
	"storycraft/pkg/pipeline"
	"storycraft/pkg/prompt"
	"storycraft/pkg/schema"
)

type stubInferencer struct {
	reply string
	err   error
	calls int
}

func (s *stubInferencer) Infer(context.Context, *openai.ChatCompletionNewParams, string, string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubInferencer) Verify(_ context.Context, result string) (bool, error) {
	return strings.TrimSpace(result) != "", nil
}

func newTestServer(t *testing.T, inf *stubInferencer) *Server {
	t.Helper()
	dir := t.TempDir()
	persister := persist.New(
		filepath.Join(dir, "text"),
		filepath.Join(dir, "pdf"),
		persist.NewArchive(filepath.Join(dir, "creations.log")),
	)
	c := catalog.New()
	p := pipeline.New(prompt.NewResolver(c), inf, persister, "stub")
	p.Now = func() time.Time { return time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC) }
	return NewServer(context.Background(), p, c, nil)
}

func do(s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

const creationJSON = `{"category":"Story","style":"Fantasy","tone":"Whimsical","protagonist":"Lady Seraphina","setting":"a floating city"}`

func TestGetRoot(t *testing.T) {
	s := newTestServer(t, &stubInferencer{})
	rec := do(s, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Storycraft API") {
		t.Fatalf("GET / = %d %s", rec.Code, rec.Body)
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatal("missing request id header")
	}
}

func TestGetOptions(t *testing.T) {
	s := newTestServer(t, &stubInferencer{})
	s.CatalogErr = &catalog.LoadError{Path: "prompts/story_prompts.json", Err: errors.New("broken")}

	rec := do(s, http.MethodGet, "/api/options", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp optionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.PoemStyles) != 5 || len(resp.Tones) != 6 || len(resp.Narrators) != 3 {
		t.Fatalf("options = %+v", resp)
	}
	for _, g := range resp.Genres {
		if g == catalog.PoetryKey {
			t.Fatal("Poetry listed as a story genre")
		}
	}
	if resp.Warning == "" {
		t.Fatal("catalog warning not exposed")
	}
}

func TestPostCreationJSON(t *testing.T) {
	inf := &stubInferencer{reply: "Clouds and bells."}
	s := newTestServer(t, inf)

	rec := do(s, http.MethodPost, "/api/creations", echo.MIMEApplicationJSON, creationJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		ID          string `json:"id"`
		Text        string `json:"text"`
		Prompt      string `json:"prompt"`
		TextURL     string `json:"text_url"`
		DocumentURL string `json:"document_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID != "Story_Fantasy_20240309_070501" || resp.Text != "Clouds and bells." {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Prompt != "Write a Whimsical story about Lady Seraphina in a floating city" {
		t.Fatalf("prompt = %q", resp.Prompt)
	}

	text := do(s, http.MethodGet, resp.TextURL, "", "")
	if text.Code != http.StatusOK || text.Body.String() != "Clouds and bells." {
		t.Fatalf("download = %d %q", text.Code, text.Body)
	}
	if cd := text.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "attachment") {
		t.Fatalf("content disposition = %q", cd)
	}
	doc := do(s, http.MethodGet, resp.DocumentURL, "", "")
	if doc.Code != http.StatusOK || !strings.HasPrefix(doc.Body.String(), "%PDF") {
		t.Fatalf("document download = %d", doc.Code)
	}
}

func TestPostCreationForm(t *testing.T) {
	s := newTestServer(t, &stubInferencer{reply: "A verse."})
	form := url.Values{
		"category":    {"poem"},
		"style":       {"haiku"},
		"tone":        {"Epic"},
		"protagonist": {"A lone wolf"},
		"setting":     {"a snowy ridge"},
		"narrator":    {"Third Person"},
	}
	rec := do(s, http.MethodPost, "/api/creations", echo.MIMEApplicationForm, form.Encode())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	want := "Compose a Epic poem about A lone wolf in a snowy ridge. Use Third Person perspective. "
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("body %s missing prompt %q", rec.Body, want)
	}
}

func TestPostCreationValidation(t *testing.T) {
	inf := &stubInferencer{reply: "unused"}
	s := newTestServer(t, inf)

	rec := do(s, http.MethodPost, "/api/creations", echo.MIMEApplicationJSON,
		`{"category":"Story","style":"Fantasy","tone":"Dark","protagonist":" ","setting":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "protagonist") {
		t.Fatalf("body = %s", rec.Body)
	}
	if inf.calls != 0 {
		t.Fatalf("backend called %d times", inf.calls)
	}
}

func TestPostCreationUnknownCategory(t *testing.T) {
	s := newTestServer(t, &stubInferencer{reply: "x"})
	rec := do(s, http.MethodPost, "/api/creations", echo.MIMEApplicationJSON,
		`{"category":"Limerick","protagonist":"a","setting":"b"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPostCreationGenerationFailure(t *testing.T) {
	s := newTestServer(t, &stubInferencer{err: errors.New("upstream down")})
	rec := do(s, http.MethodPost, "/api/creations", echo.MIMEApplicationJSON, creationJSON)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	archive := do(s, http.MethodGet, "/api/archive", "", "")
	if archive.Code != http.StatusNoContent {
		t.Fatalf("archive after failure = %d %q", archive.Code, archive.Body)
	}
}

func TestPostCreationStream(t *testing.T) {
	s := newTestServer(t, &stubInferencer{reply: "Streamed."})
	rec := do(s, http.MethodPost, "/api/creations/stream", echo.MIMEApplicationJSON, creationJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	order := []string{
		`"stage":"validated"`,
		`"stage":"resolved"`,
		`"stage":"generating"`,
		`"stage":"persisting"`,
		"event: result",
		"event: close",
	}
	last := -1
	for _, want := range order {
		i := strings.Index(body, want)
		if i <= last {
			t.Fatalf("event %q out of order in:\n%s", want, body)
		}
		last = i
	}
}

func TestPostCreationStreamError(t *testing.T) {
	s := newTestServer(t, &stubInferencer{reply: "   "})
	rec := do(s, http.MethodPost, "/api/creations/stream", echo.MIMEApplicationJSON, creationJSON)
	body := rec.Body.String()
	if !strings.Contains(body, "event: error") || !strings.Contains(body, `"status":502`) {
		t.Fatalf("stream = %s", body)
	}
	if strings.Contains(body, "event: result") {
		t.Fatalf("result sent after failure:\n%s", body)
	}
}

func TestDownloadRejectsTraversal(t *testing.T) {
	s := newTestServer(t, &stubInferencer{})
	for _, target := range []string{
		"/api/creations/..%2F..%2Fetc/text",
		"/api/creations/a..b/document",
		"/api/creations/a%5Cb/text",
	} {
		rec := do(s, http.MethodGet, target, "", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("GET %s = %d", target, rec.Code)
		}
	}
	if rec := do(s, http.MethodGet, "/api/creations/Story_Nothing_1/text", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing creation = %d", rec.Code)
	}
}

func TestArchive(t *testing.T) {
	s := newTestServer(t, &stubInferencer{reply: "Once."})
	if rec := do(s, http.MethodGet, "/api/archive", "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("empty archive = %d", rec.Code)
	}
	for range 2 {
		if rec := do(s, http.MethodPost, "/api/creations", echo.MIMEApplicationJSON, creationJSON); rec.Code != http.StatusOK {
			t.Fatalf("create = %d", rec.Code)
		}
	}

	rec := do(s, http.MethodGet, "/api/archive", "", "")
	want := strings.Repeat("20240309_070501 | Story | Fantasy | Whimsical\n", 2)
	if rec.Code != http.StatusOK || rec.Body.String() != want {
		t.Fatalf("archive = %d %q", rec.Code, rec.Body)
	}

	rec = do(s, http.MethodGet, "/api/archive/entries", "", "")
	var entries []schema.LogLine
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Tone != "Whimsical" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestSchemas(t *testing.T) {
	s := newTestServer(t, &stubInferencer{})
	for _, target := range []string{"/api/catalog/schema", "/api/creations/schema"} {
		rec := do(s, http.MethodGet, target, "", "")
		if rec.Code != http.StatusOK || !json.Valid(rec.Body.Bytes()) {
			t.Fatalf("GET %s = %d", target, rec.Code)
		}
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, &stubInferencer{reply: "x"})
	do(s, http.MethodPost, "/api/creations", echo.MIMEApplicationJSON, creationJSON)
	rec := do(s, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "storycraft_creation_total") {
		t.Fatalf("metrics = %d", rec.Code)
	}
}
