package route

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"kalender/src-server/model"
	"kalender/src-server/utils"

	"github.com/google/uuid"
)

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	// logout
	muxer.HandleFunc("DELETE /auth", func(w http.ResponseWriter, r *http.Request) {
		if sessionCookie, err := r.Cookie(SessionSecretCookieName); err == nil {
			if _, err := as.BunDB.
				NewDelete().
				Model((*model.Session)(nil)).
				Where("secret = ?", sessionCookie.Value).
				Exec(r.Context()); err != nil {
				slog.Warn("can't delete session on logout", "error", err)
			}
		}
		w.Header().Set("Set-Cookie", SessionSecretCookieName+"=; Path=/; HttpOnly; SameSite=Lax; Max-Age=0")
		w.WriteHeader(http.StatusOK)
	})

	type AuthReqBody struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// login; the only credential check in the whole app
	muxer.HandleFunc("POST /auth", func(w http.ResponseWriter, r *http.Request) {
		var reqBody AuthReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Invalid request body"}`))
			return
		}

		usernameOk := subtle.ConstantTimeCompare(
			[]byte(reqBody.Username), []byte(as.Config.GetAdminUsername())) == 1
		passwordOk := subtle.ConstantTimeCompare(
			[]byte(reqBody.Password), []byte(as.Config.GetAdminPassword())) == 1
		if !usernameOk || !passwordOk {
			slog.Info("failed login attempt", "username", reqBody.Username)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Incorrect password"}`))
			return
		}

		newSessionSecret := uuid.NewString()
		if _, err := as.BunDB.
			NewInsert().
			Model(&model.Session{
				Secret:           newSessionSecret,
				Username:         reqBody.Username,
				CreatedAtUnixUTC: time.Now().UTC().Unix(),
			}).
			Exec(r.Context()); err != nil {
			slog.Error("can't insert session", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"Can't create session"}`))
			return
		}

		w.Header().Set("Set-Cookie", SessionSecretCookieName+"="+newSessionSecret+"; Path=/; HttpOnly; SameSite=Lax")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Login successful!"}`))
	})
}
