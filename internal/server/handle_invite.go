package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayusharma-ctrl/GIYC/internal/game"
)

type SendInviteRequest struct {
	Invitee string `json:"invitee"`
}

func handleSendInvite(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)

		var req SendInviteRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Invitee = strings.TrimSpace(req.Invitee)
		if req.Invitee == "" {
			writeError(w, http.StatusBadRequest, "invitee is required")
			return
		}

		// An invite only makes sense for a username nobody holds yet.
		taken, err := store.UsernameTaken(r.Context(), req.Invitee)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if taken {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}

		err = store.CreateInvite(r.Context(), sess.UserID, req.Invitee)
		if errors.Is(err, ErrDuplicate) {
			writeError(w, http.StatusConflict, "you've already sent an invite to this user")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// acceptPendingInvites marks every invite addressed to the freshly
// registered username accepted and notifies the inviters. Acceptance is
// only reachable through registration, so nobody can flip someone
// else's invites. Best effort: a failure here must not fail the signup.
func acceptPendingInvites(ctx context.Context, logger *slog.Logger, store Store, engine *game.Engine, invitee string) {
	inviters, err := store.AcceptInvitesForUsername(ctx, invitee)
	if err != nil {
		logger.Error("accepting invites", "invitee", invitee, "error", err)
		return
	}

	msg := fmt.Sprintf("@%s has accepted your invitation!", invitee)
	for _, inviterID := range inviters {
		if _, err := engine.Emit(ctx, inviterID, msg, "🤩"); err != nil {
			logger.Error("emitting invite notification", "invited_by", inviterID, "error", err)
		}
	}
}
