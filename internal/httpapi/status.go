package httpapi

import (
	"net/http"

	"github.com/ent0n29/memos/internal/memo"
)

type statusCheck struct {
	ID     string `json:"id"`
	Status string `json:"status"` // ok|warn|error
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
	Fix    string `json:"fix,omitempty"`
}

type statusResponse struct {
	StoreBackend    string        `json:"store_backend"`
	ListOrder       string        `json:"list_order"`
	FeedSubscribers int           `json:"feed_subscribers"`
	Checks          []statusCheck `json:"checks"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		StoreBackend: string(s.cfg.StoreBackend),
		ListOrder:    string(s.cfg.ListOrder),
		Checks:       s.storeChecks(),
	}
	if s.hub != nil {
		resp.FeedSubscribers = s.hub.Subscribers()
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) storeChecks() []statusCheck {
	checks := make([]statusCheck, 0, 3)
	switch s.cfg.StoreBackend {
	case memo.BackendPostgres:
		checks = append(checks, statusCheck{
			ID:     "memo_store",
			Status: "ok",
			Label:  "Memo persistence",
			Detail: "postgres",
		})
	case memo.BackendFirestore:
		detail := "firestore project " + s.cfg.FirestoreProjectID + ", collection " + s.cfg.FirestoreCollection
		checks = append(checks, statusCheck{
			ID:     "memo_store",
			Status: "ok",
			Label:  "Memo persistence",
			Detail: detail,
		})
		if s.cfg.FirestoreEmulatorHost != "" {
			checks = append(checks, statusCheck{
				ID:     "firestore_emulator",
				Status: "warn",
				Label:  "Firestore emulator",
				Detail: s.cfg.FirestoreEmulatorHost,
				Fix:    "Unset FIRESTORE_EMULATOR_HOST to talk to the managed service.",
			})
		}
	default:
		checks = append(checks, statusCheck{
			ID:     "memo_store",
			Status: "warn",
			Label:  "Memo persistence",
			Detail: "in-memory only",
			Fix:    "Set MEMO_STORE_BACKEND=postgres with DATABASE_URL to keep memos across restarts.",
		})
	}

	if s.hub == nil {
		checks = append(checks, statusCheck{
			ID:     "memo_feed",
			Status: "warn",
			Label:  "Live updates",
			Detail: "disabled",
		})
	} else {
		checks = append(checks, statusCheck{
			ID:     "memo_feed",
			Status: "ok",
			Label:  "Live updates",
			Detail: "websocket /api/memos/ws",
		})
	}
	return checks
}
