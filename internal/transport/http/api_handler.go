package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"icebreaker-service/internal/app"
	"icebreaker-service/internal/domain"
)

// API serves the profile, gallery and navigation endpoints.
type API struct {
	profiles  *app.ProfileService
	gate      *app.Gate
	publicURL string
}

func NewAPI(profiles *app.ProfileService, gate *app.Gate, publicURL string) *API {
	return &API{profiles: profiles, gate: gate, publicURL: publicURL}
}

// NewRouter wires the REST API and the quiz websocket onto one router.
func NewRouter(api *API, ws *WSHandler) *httprouter.Router {
	router := httprouter.New()
	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Write([]byte("ok"))
	})
	router.GET("/api/groups", api.groups)
	router.GET("/api/profiles", api.gallery)
	router.POST("/api/profiles", api.createProfile)
	router.POST("/api/navigate", api.navigate)
	router.GET("/share.png", api.shareQR)
	router.HandlerFunc(http.MethodGet, "/ws/quiz", ws.ServeWS)
	return router
}

type navigateRequest struct {
	Target   domain.View `json:"target"`
	Passcode string      `json:"passcode"`
}

type navigateResponse struct {
	Allowed bool `json:"allowed"`
}

func (a *API) groups(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	counts, err := a.profiles.GroupCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (a *API) gallery(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := a.gate.Navigate(domain.ViewGallery, r.Header.Get("X-Passcode")); err != nil {
		writeError(w, err)
		return
	}
	profiles, err := a.profiles.Gallery(r.Context(), r.URL.Query().Get("group"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (a *API) createProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var draft app.ProfileDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid profile payload"})
		return
	}
	profile, err := a.profiles.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (a *API) navigate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid navigate payload"})
		return
	}
	if err := a.gate.Navigate(req.Target, req.Passcode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, navigateResponse{Allowed: true})
}

func (a *API) shareQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	target := r.URL.Query().Get("url")
	if target == "" {
		target = a.publicURL
	}
	if target == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "no url to share"})
		return
	}
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrUnknownGroup),
		errors.Is(err, domain.ErrUnknownView):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrPasscodeRequired),
		errors.Is(err, domain.ErrPasscodeMismatch):
		status = http.StatusForbidden
	default:
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
