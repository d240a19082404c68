// internal/handlers/session_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"revocab/internal/middleware"
	"revocab/internal/model"
	"revocab/internal/service"
	"revocab/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SessionHandler はクイズセッションのライフサイクルを公開します。
// セッションはメモリ上の状態なので、すべての操作はPOST/DELETEで表現します。
type SessionHandler struct {
	service service.SessionService
	logger  *slog.Logger
}

func NewSessionHandler(s service.SessionService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		service: s,
		logger:  logger,
	}
}

func parseSessionID(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "session_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", "session_idの形式が正しくありません。", "session_id", model.ErrInvalidInput)
	}
	return id, nil
}

// sessionOp は「認証 → session_idパース → サービス呼び出し → 状態を返す」の定型をまとめます。
func (h *SessionHandler) sessionOp(name string, op func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := h.logger.With(slog.String("handler", name))

		userID, err := middleware.GetUserIDFromContext(r.Context())
		if err != nil {
			logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
			webutil.HandleError(w, logger, err)
			return
		}

		sessionID, err := parseSessionID(r)
		if err != nil {
			logger.Warn("Invalid session ID format in URL", slog.String("error", err.Error()))
			webutil.HandleError(w, logger, err)
			return
		}
		logger = logger.With(slog.String("user_id", userID.String()), slog.String("session_id", sessionID.String()))

		resp, err := op(r, userID, sessionID)
		if err != nil {
			logger.Warn("Session operation failed", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
			return
		}
		webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
	}
}

// StartSession は新しいクイズセッションを開始するハンドラ
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "StartSession"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.StartSessionRequest
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

	resp, err := h.service.StartSession(r.Context(), userID, &req)
	if err != nil {
		logger.Warn("Error starting session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session started", slog.String("session_id", resp.SessionID.String()), slog.String("mode", string(resp.Mode)))
	webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
}

// GetSession は現在のセッション状態を返すハンドラ
func (h *SessionHandler) GetSession() http.HandlerFunc {
	return h.sessionOp("GetSession", func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
		return h.service.GetSession(r.Context(), userID, sessionID)
	})
}

// Flip はフラッシュカードの表裏を切り替えるハンドラ
func (h *SessionHandler) Flip() http.HandlerFunc {
	return h.sessionOp("Flip", func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
		return h.service.Flip(r.Context(), userID, sessionID)
	})
}

// Grade は現在のカードに自己評価を記録するハンドラ
func (h *SessionHandler) Grade() http.HandlerFunc {
	return h.sessionOp("Grade", func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
		var req model.GradeRequest
		if err := webutil.DecodeJSONBody(r, &req); err != nil {
			return nil, model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		}
		if err := webutil.ValidateStruct(req); err != nil {
			return nil, err
		}
		return h.service.Grade(r.Context(), userID, sessionID, *req.Known)
	})
}

// Select はマッチングゲームの列選択を処理するハンドラ
func (h *SessionHandler) Select() http.HandlerFunc {
	return h.sessionOp("Select", func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
		var req model.SelectRequest
		if err := webutil.DecodeJSONBody(r, &req); err != nil {
			return nil, model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		}
		if err := webutil.ValidateStruct(req); err != nil {
			return nil, err
		}
		return h.service.Select(r.Context(), userID, sessionID, &req)
	})
}

// ClearWrong はミスマッチ表示を解除するハンドラ
func (h *SessionHandler) ClearWrong() http.HandlerFunc {
	return h.sessionOp("ClearWrong", func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
		return h.service.ClearWrong(r.Context(), userID, sessionID)
	})
}

// Answer は多肢選択の回答を処理するハンドラ
func (h *SessionHandler) Answer() http.HandlerFunc {
	return h.sessionOp("Answer", func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
		var req model.AnswerRequest
		if err := webutil.DecodeJSONBody(r, &req); err != nil {
			return nil, model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		}
		if err := webutil.ValidateStruct(req); err != nil {
			return nil, err
		}
		return h.service.Answer(r.Context(), userID, sessionID, req.Choice)
	})
}

// Advance は次の問題・次のページへ進むハンドラ
func (h *SessionHandler) Advance() http.HandlerFunc {
	return h.sessionOp("Advance", func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
		return h.service.Advance(r.Context(), userID, sessionID)
	})
}

// RepeatMistakes は間違えたカードだけの再挑戦ラウンドを始めるハンドラ
func (h *SessionHandler) RepeatMistakes() http.HandlerFunc {
	return h.sessionOp("RepeatMistakes", func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
		return h.service.RepeatMistakes(r.Context(), userID, sessionID)
	})
}

// Restart はフラッシュカードをフルセットから始め直すハンドラ
func (h *SessionHandler) Restart() http.HandlerFunc {
	return h.sessionOp("Restart", func(r *http.Request, userID, sessionID uuid.UUID) (*model.SessionResponse, error) {
		return h.service.Restart(r.Context(), userID, sessionID)
	})
}

// Finish は完了したセッションの結果を確定するハンドラ
func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Finish"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	sessionID, err := parseSessionID(r)
	if err != nil {
		logger.Warn("Invalid session ID format in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()), slog.String("session_id", sessionID.String()))

	result, err := h.service.Finish(r.Context(), userID, sessionID)
	if err != nil {
		logger.Warn("Error finishing session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session finished", slog.Int("score", result.ScorePercentage))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}

// Abandon はセッションを結果を保存せずに破棄するハンドラ
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Abandon"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	sessionID, err := parseSessionID(r)
	if err != nil {
		logger.Warn("Invalid session ID format in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()), slog.String("session_id", sessionID.String()))

	if err := h.service.Abandon(r.Context(), userID, sessionID); err != nil {
		logger.Warn("Error abandoning session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session abandoned")
	w.WriteHeader(http.StatusNoContent)
}
