package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homework-sync-api/internal/feature/assignment"
	httpez "homework-sync-api/internal/transport/http/ez"
	mdw "homework-sync-api/internal/transport/http/middleware"
)

type AssignmentHandler struct {
	svc *assignment.Service
	log *zap.Logger
}

func NewAssignmentHandler(svc *assignment.Service, log *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{svc: svc, log: log}
}

// Mount registers the assignment routes on an authenticated group.
func (h *AssignmentHandler) Mount(g *gin.RouterGroup) {
	ez := httpez.New(g)

	httpez.RegisterAction[struct{}, []assignment.Assignment](ez, httpez.Action[struct{}, []assignment.Assignment]{
		Method: http.MethodGet,
		Path:   "/assignments",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]assignment.Assignment, error) {
			items, err := h.svc.List(c.Request.Context(), c.GetString(mdw.ContextUserID))
			if err != nil {
				return nil, h.storeErr(c, "list assignments", err)
			}
			if items == nil {
				items = []assignment.Assignment{}
			}
			return items, nil
		},
	})

	httpez.RegisterAction[assignment.CreateInput, *assignment.Assignment](ez, httpez.Action[assignment.CreateInput, *assignment.Assignment]{
		Method: http.MethodPost,
		Path:   "/assignments",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *assignment.CreateInput) (*assignment.Assignment, error) {
			a, err := h.svc.Create(c.Request.Context(), c.GetString(mdw.ContextUserID), *in)
			if err != nil {
				return nil, h.storeErr(c, "create assignment", err)
			}
			return a, nil
		},
	})

	httpez.RegisterAction[assignment.UpdateInput, *assignment.Assignment](ez, httpez.Action[assignment.UpdateInput, *assignment.Assignment]{
		Method: http.MethodPut,
		Path:   "/assignments/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *assignment.UpdateInput) (*assignment.Assignment, error) {
			a, err := h.svc.Update(c.Request.Context(), c.GetString(mdw.ContextUserID), c.Param("id"), *in)
			if err != nil {
				return nil, h.storeErr(c, "update assignment", err)
			}
			return a, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/assignments/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Delete(c.Request.Context(), c.GetString(mdw.ContextUserID), id); err != nil {
				return nil, h.storeErr(c, "delete assignment", err)
			}
			return gin.H{"id": id}, nil
		},
	})

	// Bulk replace: the body is the bare JSON array. Anything else fails
	// binding and comes back as a validation error.
	httpez.RegisterAction[[]assignment.SyncItem, []assignment.Assignment](ez, httpez.Action[[]assignment.SyncItem, []assignment.Assignment]{
		Method: http.MethodPost,
		Path:   "/assignments/sync",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *[]assignment.SyncItem) ([]assignment.Assignment, error) {
			// JSON null decodes to a nil slice without a bind error; only a
			// real array (including []) may replace the user's set.
			if *in == nil {
				return nil, httpez.BadRequest("payload must be a list")
			}
			items, err := h.svc.Sync(c.Request.Context(), c.GetString(mdw.ContextUserID), *in)
			if err != nil {
				return nil, h.storeErr(c, "sync assignments", err)
			}
			mdw.ObserveSync()
			if items == nil {
				items = []assignment.Assignment{}
			}
			return items, nil
		},
	})
}

// storeErr passes domain errors through untouched and turns anything
// else into an opaque, logged persistence failure.
func (h *AssignmentHandler) storeErr(c *gin.Context, op string, err error) error {
	var ve *assignment.ValidationError
	if errors.As(err, &ve) || errors.Is(err, assignment.ErrNotFound) {
		return err
	}
	h.log.Error(op+" failed",
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
		zap.String("user", c.GetString(mdw.ContextUserID)),
		zap.Error(err),
	)
	return httpez.Internal("storage failure", err)
}
