package handler

import (
	noteapp "github.com/cotizador/backend/internal/application/note"
	"github.com/gin-gonic/gin"
)

// NoteHandler handles the free-form notes endpoints
type NoteHandler struct {
	BaseHandler
	noteService *noteapp.Service
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteService *noteapp.Service) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// List godoc
// @ID           listNotes
// @Summary      List notes, newest first
// @Tags         notes
// @Produce      json
// @Success      200 {object} dto.Response{data=[]noteapp.NoteResponse}
// @Security     BearerAuth
// @Router       /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.noteService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notes)
}

// Create godoc
// @ID           createNote
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        request body noteapp.NoteRequest true "Note"
// @Success      201 {object} dto.Response{data=noteapp.NoteResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req noteapp.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	n, err := h.noteService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, n)
}

// Update godoc
// @ID           updateNote
// @Summary      Edit a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id path string true "Note ID" format(uuid)
// @Param        request body noteapp.NoteRequest true "Note"
// @Success      200 {object} dto.Response{data=noteapp.NoteResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req noteapp.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	n, err := h.noteService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// Delete godoc
// @ID           deleteNote
// @Summary      Delete a note
// @Tags         notes
// @Param        id path string true "Note ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
