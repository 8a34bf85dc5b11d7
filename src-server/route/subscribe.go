package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"kalender/src-server/utils"
)

// Subscribe accepts an email address for event notifications.
// Delivery is not implemented; the request is logged and accepted.
func Subscribe(muxer *http.ServeMux, as *utils.AppState) {
	type SubscribeReqBody struct {
		Email string `json:"email"`
	}

	muxer.HandleFunc("POST /api/subscribe", func(w http.ResponseWriter, r *http.Request) {
		var reqBody SubscribeReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Invalid request body"}`))
			return
		}

		email := strings.TrimSpace(reqBody.Email)
		if email == "" || !strings.Contains(email, "@") {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"Invalid email address"}`))
			return
		}

		slog.Info("subscribe requested, delivery not implemented", "email", email)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"message":"Subscribed"}`))
	})
}
