// Command mock-realtime stands in for the realtime fan-out endpoint in
// local development. It accepts snapshot webhooks and logs them so the
// publish path can be exercised end to end without a subscriber stack.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/nikan-clinic/frontdesk/internal/logging"
)

type snapshotPayload struct {
	BookingID  string   `json:"booking_id"`
	Price      int64    `json:"price"`
	TotalPaid  int64    `json:"total_paid"`
	Remaining  int64    `json:"remaining"`
	Status     string   `json:"status"`
	PaymentIDs []string `json:"payment_ids"`
	EmittedAt  string   `json:"emitted_at"`
}

func main() {
	logging.Init("mock-realtime", "info", os.Getenv("APP_ENV"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})
	mux.HandleFunc("POST /snapshots", func(w http.ResponseWriter, r *http.Request) {
		var p snapshotPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			slog.Error("bad snapshot payload", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		slog.Info("snapshot received",
			"booking_id", p.BookingID,
			"price", p.Price,
			"total_paid", p.TotalPaid,
			"remaining", p.Remaining,
			"status", p.Status,
			"payments", len(p.PaymentIDs),
		)
		w.WriteHeader(http.StatusNoContent)
	})

	slog.Info("mock realtime endpoint started", "addr", ":8081")
	if err := http.ListenAndServe(":8081", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
