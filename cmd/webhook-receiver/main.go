package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/util"
)

const defaultReceiverAddr = ":9090"

// Локальный приёмник для проверки уведомлений о повторном использовании refresh токена.
func main() {
	log := util.NewZapLogger()

	addr := os.Getenv("WEBHOOK_RECEIVER_ADDR")
	if addr == "" {
		addr = defaultReceiverAddr
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Only POST method is accepted", http.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()

		var event models.TokenReuseEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			http.Error(w, "Error parsing JSON", http.StatusBadRequest)
			return
		}

		log.Warnw("Received security webhook",
			"event", event.Event,
			"userID", event.UserID,
			"familyID", event.FamilyID,
			"detectedAt", event.DetectedAt,
		)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Webhook received!"))
	})

	log.Infof("Webhook receiver listening on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
