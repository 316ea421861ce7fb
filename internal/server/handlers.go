// Package server provides HTTP handlers and server setup for the bridge.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"aibridge/internal/backend"
	"aibridge/internal/completion"
	"aibridge/internal/core"
	"aibridge/internal/filestore"
	"aibridge/internal/metrics"
	"aibridge/internal/prompt"
)

// Handler holds the HTTP handlers
type Handler struct {
	generator core.Generator
	files     *filestore.Store
	proxyHost string
}

// NewHandler creates a new handler with the given collaborators
func NewHandler(generator core.Generator, files *filestore.Store, proxyHost string) *Handler {
	return &Handler{
		generator: generator,
		files:     files,
		proxyHost: proxyHost,
	}
}

// ChatCompletion handles POST /v1/chat/completions. It accepts either a
// JSON body or a multipart form (with an optional file upload); both shapes
// normalize into the same core.ChatRequest before orchestration.
func (h *Handler) ChatCompletion(c echo.Context) error {
	req, fileHeader, err := parseChatRequest(c)
	if err != nil {
		return handleError(c, err)
	}

	if !h.generator.Supports(req.Model) {
		msg := fmt.Sprintf("invalid model: %s. available: %s", req.Model, strings.Join(h.generator.Models(), ", "))
		return handleError(c, core.NewInvalidRequestError(msg, nil))
	}

	metrics.Global().ChatRequests.WithLabelValues(req.Model).Inc()

	// At most one file per request reaches the backend payload.
	var fileRefs []core.FileReference
	if fileHeader != nil && fileHeader.Filename != "" {
		ref, err := h.storeUpload(fileHeader)
		if err != nil {
			return handleError(c, err)
		}
		fileRefs = append(fileRefs, ref)
	}

	start := time.Now()
	reply, err := h.generator.Generate(c.Request().Context(), req.Model, prompt.ToPrompt(req.Messages), fileRefs)
	metrics.Global().BackendLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Global().BackendErrors.Inc()
		return handleError(c, err)
	}

	id := completion.NewID()
	created := time.Now().Unix()

	if req.Stream {
		return writeStream(c, completion.StreamFrames(id, req.Model, reply, created))
	}
	return c.JSON(http.StatusOK, completion.NewResponse(id, req.Model, reply, created))
}

// ListModels handles GET /v1/models
func (h *Handler) ListModels(c echo.Context) error {
	names := h.generator.Models()
	models := make([]core.Model, 0, len(names))
	for _, name := range names {
		models = append(models, core.Model{ID: name, Object: "model", OwnedBy: "postech"})
	}
	return c.JSON(http.StatusOK, core.ModelsResponse{Object: "list", Data: models})
}

// UploadFile handles POST /v1/files
func (h *Handler) UploadFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return handleError(c, core.NewInvalidRequestError("file field is required", err))
	}

	ref, err := h.storeUpload(fileHeader)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, ref)
}

// GetFile handles GET /files/:id
func (h *Handler) GetFile(c echo.Context) error {
	rec, err := h.files.Get(c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.Attachment(rec.Path, rec.Name)
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// storeUpload persists one multipart upload and returns its wire reference.
func (h *Handler) storeUpload(fileHeader *multipart.FileHeader) (core.FileReference, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return core.FileReference{}, core.NewInvalidRequestError("failed to read uploaded file: "+err.Error(), err)
	}
	defer func() {
		_ = src.Close()
	}()

	rec, err := h.files.Save(fileHeader.Filename, src)
	if err != nil {
		return core.FileReference{}, err
	}
	metrics.Global().FilesStored.Inc()
	return filestore.Reference(rec, h.proxyHost), nil
}

// parseChatRequest normalizes the two submission shapes into one canonical
// request. Only the multipart shape can carry a file.
func parseChatRequest(c echo.Context) (*core.ChatRequest, *multipart.FileHeader, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return parseMultipartRequest(c)
	}
	return parseJSONRequest(c)
}

func parseJSONRequest(c echo.Context) (*core.ChatRequest, *multipart.FileHeader, error) {
	var req core.ChatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return nil, nil, core.NewInvalidRequestError("invalid request body: "+err.Error(), err)
	}
	if req.Model == "" {
		req.Model = backend.DefaultModel
	}
	return &req, nil, nil
}

func parseMultipartRequest(c echo.Context) (*core.ChatRequest, *multipart.FileHeader, error) {
	messagesField := c.FormValue("messages")
	if messagesField == "" {
		return nil, nil, core.NewInvalidRequestError("messages field is required", nil)
	}

	var messages []core.Message
	if err := json.Unmarshal([]byte(messagesField), &messages); err != nil {
		return nil, nil, core.NewInvalidRequestError("invalid messages format: "+err.Error(), err)
	}

	model := c.FormValue("model")
	if model == "" {
		model = backend.DefaultModel
	}

	req := &core.ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   strings.EqualFold(c.FormValue("stream"), "true"),
	}

	// A missing file part is not an error; an empty filename is ignored.
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fileHeader = nil
	}
	return req, fileHeader, nil
}

// writeStream serializes the synthesized frames as a server-sent event
// response, flushing after each frame.
func writeStream(c echo.Context, frames []string) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	for _, frame := range frames {
		if _, err := io.WriteString(c.Response(), frame); err != nil {
			// Headers are already sent; nothing useful to return.
			return nil
		}
		c.Response().Flush()
	}
	return nil
}

// handleError converts bridge errors to appropriate HTTP responses
func handleError(c echo.Context, err error) error {
	var bridgeErr *core.BridgeError
	if errors.As(err, &bridgeErr) {
		return c.JSON(bridgeErr.HTTPStatusCode(), bridgeErr.ToJSON())
	}

	// Fallback for unexpected errors
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
