package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/afrocuisto-cms/backend/internal/middleware"
	"github.com/pageza/afrocuisto-cms/backend/internal/service"
)

// MaxImageBytes caps the size of an uploaded recipe image.
const MaxImageBytes = 10 << 20

// EditorHandler exposes editor sessions over HTTP
type EditorHandler struct {
	sessions *service.Sessions
	limiter  *middleware.RateLimiter
}

// NewEditorHandler creates the handler. limiter may be nil.
func NewEditorHandler(sessions *service.Sessions, limiter *middleware.RateLimiter) *EditorHandler {
	return &EditorHandler{sessions: sessions, limiter: limiter}
}

func (h *EditorHandler) RegisterRoutes(router *gin.RouterGroup) {
	limited := h.limiter.RateLimitMiddleware()

	editor := router.Group("/editor")
	{
		editor.POST("", h.Open)
		editor.GET("/:sid", h.Get)
		editor.PATCH("/:sid", h.Patch)
		editor.DELETE("/:sid", h.Close)

		editor.POST("/:sid/ingredients", h.AddIngredient)
		editor.PUT("/:sid/ingredients/:index", h.UpdateIngredient)
		editor.DELETE("/:sid/ingredients/:index", h.RemoveIngredient)

		editor.POST("/:sid/steps", h.AddStep)
		editor.PUT("/:sid/steps/:index", h.UpdateStep)
		editor.DELETE("/:sid/steps/:index", h.RemoveStep)

		editor.POST("/:sid/image", limited, h.UploadImage)
		editor.POST("/:sid/save", limited, h.Save)
	}
}

type openRequest struct {
	RecipeID string `json:"recipeId"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	service.EditorView
}

// Open starts an editor session on an existing record or a new dish
func (h *EditorHandler) Open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body")
		return
	}

	id, editor, err := h.sessions.Open(req.RecipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{SessionID: id, EditorView: editor.View()})
}

func (h *EditorHandler) editor(c *gin.Context) (*service.Editor, bool) {
	editor, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return editor, true
}

func (h *EditorHandler) respondView(c *gin.Context, status int, editor *service.Editor) {
	c.JSON(status, sessionResponse{SessionID: c.Param("sid"), EditorView: editor.View()})
}

func (h *EditorHandler) Get(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	h.respondView(c, http.StatusOK, editor)
}

// Patch applies field changes. Every key is checked before any is applied.
func (h *EditorHandler) Patch(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}

	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	var (
		texts     = map[service.Field]string{}
		rating    *float64
		setRating bool
		sides     []string
		setSides  bool
	)
	for key, raw := range patch {
		switch key {
		case "rating":
			if err := json.Unmarshal(raw, &rating); err != nil {
				badRequest(c, "rating must be a number or null")
				return
			}
			setRating = true
		case "suggestedSides":
			if err := json.Unmarshal(raw, &sides); err != nil {
				badRequest(c, "suggestedSides must be a list of strings")
				return
			}
			setSides = true
		default:
			field := service.Field(key)
			if !field.Valid() {
				badRequest(c, fmt.Sprintf("unknown field %q", key))
				return
			}
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				badRequest(c, fmt.Sprintf("field %q must be a string", key))
				return
			}
			texts[field] = value
		}
	}

	for field, value := range texts {
		if err := editor.SetField(field, value); err != nil {
			respondError(c, err)
			return
		}
	}
	if setRating {
		if err := editor.SetRating(rating); err != nil {
			respondError(c, err)
			return
		}
	}
	if setSides {
		if err := editor.SetSuggestedSides(sides); err != nil {
			respondError(c, err)
			return
		}
	}
	h.respondView(c, http.StatusOK, editor)
}

// Close discards the working copy and ends the session
func (h *EditorHandler) Close(c *gin.Context) {
	if err := h.sessions.Close(c.Param("sid")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "index must be an integer")
		return 0, false
	}
	return index, true
}

func (h *EditorHandler) apply(c *gin.Context, editor *service.Editor, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, http.StatusOK, editor)
}

func (h *EditorHandler) AddIngredient(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	h.apply(c, editor, editor.AddIngredient())
}

type ingredientUpdate struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *EditorHandler) UpdateIngredient(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req ingredientUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	h.apply(c, editor, editor.UpdateIngredient(index, req.Field, req.Value))
}

func (h *EditorHandler) RemoveIngredient(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.apply(c, editor, editor.RemoveIngredient(index))
}

func (h *EditorHandler) AddStep(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	h.apply(c, editor, editor.AddStep())
}

type stepUpdate struct {
	Value string `json:"value"`
}

func (h *EditorHandler) UpdateStep(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req stepUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	h.apply(c, editor, editor.UpdateStep(index, req.Value))
}

func (h *EditorHandler) RemoveStep(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.apply(c, editor, editor.RemoveStep(index))
}

// UploadImage accepts a multipart "file" and uploads it in the background.
// Progress and the outcome are visible through GET /editor/:sid.
func (h *EditorHandler) UploadImage(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageBytes+1<<20)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			imageTooLarge(c)
			return
		}
		badRequest(c, "file is required")
		return
	}
	if header.Size > MaxImageBytes {
		imageTooLarge(c)
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "unreadable file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes))
	if err != nil {
		badRequest(c, "unreadable file")
		return
	}

	if err := editor.StartUpload(c.Request.Context(), header.Filename, data); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, http.StatusAccepted, editor)
}

func imageTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, middleware.ErrorResponse{Error: "image too large"})
}

// Save upserts the working copy. Store failures map to 502 with a generic
// message; the working copy stays available.
func (h *EditorHandler) Save(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}

	err := editor.Save(c.Request.Context())
	switch {
	case err == nil:
		h.respondView(c, http.StatusOK, editor)
	case errors.Is(err, service.ErrEditorClosed) || service.IsBusy(err):
		respondError(c, err)
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":  service.SaveFailedMessage,
			"editor": editor.View(),
		})
	}
}
