// internal/handlers/set_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"revocab/internal/middleware"
	"revocab/internal/model"
	"revocab/internal/service"
	"revocab/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SetHandler struct {
	service service.SetService
	logger  *slog.Logger
}

func NewSetHandler(s service.SetService, logger *slog.Logger) *SetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetHandler{
		service: s,
		logger:  logger,
	}
}

// parseSetID はURLパラメータのset_idをパースします。
func parseSetID(r *http.Request) (uuid.UUID, error) {
	setIDStr := chi.URLParam(r, "set_id")
	setID, err := uuid.Parse(setIDStr)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", "set_idの形式が正しくありません。", "set_id", model.ErrInvalidInput)
	}
	return setID, nil
}

// PostSet は新しい単語セットを作成するためのハンドラ
func (h *SetHandler) PostSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSet"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.PostSetRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	set, err := h.service.CreateSet(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating set in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Set created successfully", slog.String("set_id", set.SetID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, model.NewSetResponse(set), logger)
}

// ExtractSet は写真から抽出した語彙でセットの下書きを作成するハンドラ
func (h *SetHandler) ExtractSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ExtractSet"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.ExtractSetRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	set, err := h.service.CreateSetFromImage(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating set from image in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Set extracted successfully", slog.String("set_id", set.SetID.String()), slog.Int("items", len(set.Items)))
	webutil.RespondWithJSON(w, http.StatusCreated, model.NewSetResponse(set), logger)
}

// GetSets はユーザーのセット一覧を取得するためのハンドラ
func (h *SetHandler) GetSets(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSets"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	sets, err := h.service.GetSets(r.Context(), userID)
	if err != nil {
		logger.Error("Error listing sets in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	resp := make([]*model.SetResponse, 0, len(sets))
	for i := range sets {
		resp = append(resp, model.NewSetResponse(&sets[i]))
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// GetSet は特定のセットを取得するためのハンドラ
func (h *SetHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSet"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	setID, err := parseSetID(r)
	if err != nil {
		logger.Warn("Invalid set ID format in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()), slog.String("set_id", setID.String()))

	set, err := h.service.GetSet(r.Context(), userID, setID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Set not found in service")
		} else {
			logger.Error("Error getting set from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.NewSetResponse(set), logger)
}

// PatchSet はセットのタイトル・メタデータ・語彙リストを更新するためのハンドラ
func (h *SetHandler) PatchSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchSet"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	setID, err := parseSetID(r)
	if err != nil {
		logger.Warn("Invalid set ID format in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()), slog.String("set_id", setID.String()))

	var req model.PatchSetRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if req.Title == nil && req.Metadata == nil && req.Items == nil {
		logger.Warn("PatchSet called with no fields provided for update")
		appErr := model.NewAppError("VALIDATION_ERROR", "更新するフィールドが指定されていません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	set, err := h.service.PatchSet(r.Context(), userID, setID, &req)
	if err != nil {
		logger.Error("Error patching set in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Set patched successfully")
	webutil.RespondWithJSON(w, http.StatusOK, model.NewSetResponse(set), logger)
}

// DeleteSet はセットを削除するためのハンドラ
func (h *SetHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteSet"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	setID, err := parseSetID(r)
	if err != nil {
		logger.Warn("Invalid set ID format in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()), slog.String("set_id", setID.String()))

	if err := h.service.DeleteSet(r.Context(), userID, setID); err != nil {
		logger.Error("Error deleting set in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Set deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}
