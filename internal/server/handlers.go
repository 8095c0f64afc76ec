package server

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mhellwig/forumpulse/internal/domain"
	apperrors "github.com/mhellwig/forumpulse/internal/errors"
)

const userIDHeader = "X-User-ID"
const maxBatchSize = 200

// userFromRequest resolves the acting user from the gateway-provided header.
func userFromRequest(c echo.Context) (int64, error) {
	raw := c.Request().Header.Get(userIDHeader)
	if raw == "" {
		return 0, apperrors.ValidationError("missing X-User-ID header")
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, apperrors.ValidationError("invalid X-User-ID header").WithContext("value", raw)
	}
	return userID, nil
}

// targetFromPath parses the :type/:id route segments into a target reference.
func targetFromPath(c echo.Context) (domain.TargetRef, error) {
	targetType, err := domain.ParseTargetType(c.Param("type"))
	if err != nil {
		return domain.TargetRef{}, apperrors.ValidationError("invalid target type").WithContext("type", c.Param("type"))
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return domain.TargetRef{}, apperrors.ValidationError("invalid target id").WithContext("id", c.Param("id"))
	}
	return domain.TargetRef{Type: targetType, ID: id}, nil
}

type applyReactionRequest struct {
	Action string `json:"action"`
}

type applyReactionResponse struct {
	Status       string `json:"status"`
	From         string `json:"from"`
	To           string `json:"to"`
	LikeDelta    int    `json:"like_delta"`
	DislikeDelta int    `json:"dislike_delta"`
}

func (s *Server) handleApplyReaction(c echo.Context) error {
	userID, err := userFromRequest(c)
	if err != nil {
		return err
	}
	target, err := targetFromPath(c)
	if err != nil {
		return err
	}

	var req applyReactionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	action, err := domain.ParseAction(req.Action)
	if err != nil {
		return apperrors.ValidationError("invalid action").WithContext("action", req.Action)
	}

	result, err := s.app.Apply(c.Request().Context(), userID, target, action)
	if err != nil {
		return apperrors.FromDomain(err).
			WithContext("target", target.String()).
			WithContext("action", string(action))
	}

	if err := c.JSON(200, applyReactionResponse{
		Status:       "ok",
		From:         result.From.String(),
		To:           result.To.String(),
		LikeDelta:    result.LikeDelta,
		DislikeDelta: result.DislikeDelta,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type reactionsResponse struct {
	Likes    int64                 `json:"likes"`
	Dislikes int64                 `json:"dislikes"`
	Status   domain.ReactionStatus `json:"status"`
}

func (s *Server) handleGetReactions(c echo.Context) error {
	userID, err := userFromRequest(c)
	if err != nil {
		return err
	}
	target, err := targetFromPath(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	likes, dislikes, err := s.app.Counts(ctx, target)
	if err != nil {
		return apperrors.FromDomain(err).WithContext("target", target.String())
	}
	status, err := s.app.Status(ctx, userID, target)
	if err != nil {
		return apperrors.FromDomain(err).WithContext("target", target.String())
	}

	if err := c.JSON(200, reactionsResponse{Likes: likes, Dislikes: dislikes, Status: status}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleWarmTarget(c echo.Context) error {
	target, err := targetFromPath(c)
	if err != nil {
		return err
	}

	if err := s.app.WarmTarget(c.Request().Context(), target); err != nil {
		return apperrors.InternalError("failed to warm cache", err).WithContext("target", target.String())
	}

	if err := c.JSON(200, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleBatchWarm(c echo.Context) error {
	var req batchStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	targetType, err := domain.ParseTargetType(req.TargetType)
	if err != nil {
		return apperrors.ValidationError("invalid target type").WithContext("target_type", req.TargetType)
	}
	if len(req.TargetIDs) > maxBatchSize {
		return apperrors.ValidationError("too many targets").WithContext("count", len(req.TargetIDs))
	}

	warmed := s.app.WarmTargets(c.Request().Context(), targetType, req.TargetIDs)

	if err := c.JSON(200, map[string]any{"status": "ok", "warmed": warmed}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type batchStatusRequest struct {
	TargetType string  `json:"target_type"`
	TargetIDs  []int64 `json:"target_ids"`
}

func (s *Server) handleBatchStatus(c echo.Context) error {
	userID, err := userFromRequest(c)
	if err != nil {
		return err
	}

	var req batchStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	targetType, err := domain.ParseTargetType(req.TargetType)
	if err != nil {
		return apperrors.ValidationError("invalid target type").WithContext("target_type", req.TargetType)
	}
	if len(req.TargetIDs) > maxBatchSize {
		return apperrors.ValidationError("too many targets").WithContext("count", len(req.TargetIDs))
	}

	statuses, err := s.app.BatchStatus(c.Request().Context(), userID, targetType, req.TargetIDs)
	if err != nil {
		return apperrors.FromDomain(err)
	}

	if err := c.JSON(200, map[string]any{"statuses": statuses}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
