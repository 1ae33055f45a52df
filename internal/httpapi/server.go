package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
	"github.com/armaan-gp-school/ossf-scada/internal/gateway"
	apimw "github.com/armaan-gp-school/ossf-scada/internal/httpapi/middleware"
	"github.com/armaan-gp-school/ossf-scada/internal/notify"
	"github.com/armaan-gp-school/ossf-scada/internal/repo"
	"github.com/armaan-gp-school/ossf-scada/internal/scheduler"
	"github.com/armaan-gp-school/ossf-scada/internal/vault"
)

type Server struct {
	Logger       *zap.Logger
	Devices      repo.DeviceStore
	Thresholds   repo.ThresholdStore
	SMSConfig    repo.SMSConfigStore
	History      repo.HistoryStore
	Orchestrator *scheduler.Orchestrator
	Notifier     notify.Notifier
	Vault        *vault.Vault
}

func NewServer(
	l *zap.Logger,
	devices repo.DeviceStore,
	thresholds repo.ThresholdStore,
	smsCfg repo.SMSConfigStore,
	history repo.HistoryStore,
	orch *scheduler.Orchestrator,
	notifier notify.Notifier,
	v *vault.Vault,
) *Server {
	return &Server{
		Logger:       l,
		Devices:      devices,
		Thresholds:   thresholds,
		SMSConfig:    smsCfg,
		History:      history,
		Orchestrator: orch,
		Notifier:     notifier,
		Vault:        v,
	}
}

// Router wires the API. Reads need a public or admin key; anything that
// mutates thresholds, devices, or SMS settings needs an admin key.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, publicRPM, publicBurst, adminRPM, adminBurst int) http.Handler {
	r := chi.NewRouter()

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "X-API-Key", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	} else {
		r.Use(cors.AllowAll().Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// read tier
	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAny(keys))
		r.Use(apimw.RateLimit(publicRPM, publicBurst))

		r.Get("/api/devices", s.handleListDevices)
		r.Get("/api/devices/{deviceID}/alerts", s.handleReadAlerts)
		r.Get("/api/devices/{deviceID}/thresholds/{propertyID}", s.handleGetThreshold)
		r.Get("/api/carriers", s.handleListCarriers)
		r.Get("/api/alert-history", s.handleAlertHistory)
	})

	// admin tier
	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAdmin(keys))
		r.Use(apimw.RateLimit(adminRPM, adminBurst))

		r.Post("/api/devices", s.handleAddDevice)
		r.Post("/api/devices/{deviceID}/evaluate", s.handleEvaluate)
		r.Put("/api/devices/{deviceID}/thresholds/{propertyID}", s.handleSetThreshold)
		r.Delete("/api/devices/{deviceID}/thresholds/{propertyID}", s.handleDeleteThreshold)
		r.Get("/api/sms-config", s.handleGetSMSConfig)
		r.Put("/api/sms-config", s.handleSaveSMSConfig)
		r.Post("/api/sms-config/test", s.handleTestSend)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// ---- devices ----

type addDevicePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	var p addDevicePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.ID == "" {
		writeError(w, http.StatusBadRequest, "bad payload: need a device id")
		return
	}

	d := &domain.Device{ID: domain.DeviceID(p.ID), Name: p.Name, AddedAt: time.Now().UTC()}
	if err := s.Devices.AddDevice(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "could not add device")
		return
	}

	// Run a read-only evaluation synchronously for immediate feedback.
	res := s.Orchestrator.EvaluateDevice(r.Context(), *d, false)

	s.Logger.Info("added_device",
		zap.String("device_id", p.ID),
		zap.Int("alert_count", res.AlertCount),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"device":     d,
		"evaluation": res,
	})
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	ds, err := s.Devices.ListDevices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// ---- evaluation ----

// deviceForRequest resolves the registered device, or an ad-hoc one so a
// device can be inspected before it is added to the fleet.
func (s *Server) deviceForRequest(r *http.Request) (domain.Device, error) {
	id := domain.DeviceID(chi.URLParam(r, "deviceID"))
	d, err := s.Devices.GetDevice(r.Context(), id)
	if err != nil {
		return domain.Device{}, err
	}
	if d == nil {
		return domain.Device{ID: id}, nil
	}
	return *d, nil
}

func (s *Server) handleReadAlerts(w http.ResponseWriter, r *http.Request) {
	dev, err := s.deviceForRequest(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "device lookup error")
		return
	}
	writeJSON(w, http.StatusOK, s.Orchestrator.EvaluateDevice(r.Context(), dev, false))
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	dev, err := s.deviceForRequest(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "device lookup error")
		return
	}

	// notify defaults on; ?notify=0 gives a dry run that still reports alerts
	send := true
	if q := r.URL.Query().Get("notify"); q != "" {
		send, _ = strconv.ParseBool(q)
	}

	res := s.Orchestrator.EvaluateDevice(r.Context(), dev, send)
	s.Logger.Info("evaluated_device",
		zap.String("device_id", string(dev.ID)),
		zap.Bool("notify", send),
		zap.Int("alert_count", res.AlertCount),
	)
	writeJSON(w, http.StatusOK, res)
}

// ---- thresholds ----

func (s *Server) handleGetThreshold(w http.ResponseWriter, r *http.Request) {
	deviceID := domain.DeviceID(chi.URLParam(r, "deviceID"))
	propertyID := chi.URLParam(r, "propertyID")

	tr, err := s.Thresholds.GetThreshold(r.Context(), deviceID, propertyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "threshold lookup error")
		return
	}
	if tr == nil {
		writeError(w, http.StatusNotFound, "no threshold configured")
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (s *Server) handleSetThreshold(w http.ResponseWriter, r *http.Request) {
	deviceID := domain.DeviceID(chi.URLParam(r, "deviceID"))
	propertyID := chi.URLParam(r, "propertyID")

	var tr domain.ThresholdRange
	if err := json.NewDecoder(r.Body).Decode(&tr); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if tr.Min > tr.Max {
		writeError(w, http.StatusBadRequest, "min must not exceed max")
		return
	}

	if err := s.Thresholds.SetThreshold(r.Context(), deviceID, propertyID, tr); err != nil {
		writeError(w, http.StatusInternalServerError, "could not save threshold")
		return
	}
	s.Logger.Info("threshold_set",
		zap.String("device_id", string(deviceID)),
		zap.String("property_id", propertyID),
		zap.Float64("min", tr.Min),
		zap.Float64("max", tr.Max),
	)
	writeJSON(w, http.StatusOK, tr)
}

func (s *Server) handleDeleteThreshold(w http.ResponseWriter, r *http.Request) {
	deviceID := domain.DeviceID(chi.URLParam(r, "deviceID"))
	propertyID := chi.URLParam(r, "propertyID")

	if err := s.Thresholds.DeleteThreshold(r.Context(), deviceID, propertyID); err != nil {
		writeError(w, http.StatusInternalServerError, "could not delete threshold")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- SMS configuration ----

type smsConfigPayload struct {
	SenderEmail  string             `json:"senderEmail"`
	AppPassword  string             `json:"appPassword"`
	Recipients   []domain.Recipient `json:"recipients"`
	Recipient    string             `json:"recipient"`
	AlertMessage string             `json:"alertMessage"`
}

// handleGetSMSConfig never returns the stored password, only whether one
// exists.
func (s *Server) handleGetSMSConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.SMSConfig.GetSMSConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "config lookup error")
		return
	}
	if cfg == nil {
		cfg = &domain.SMSConfig{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"senderEmail":    cfg.SenderEmail,
		"recipients":     cfg.Recipients,
		"recipient":      cfg.LegacyRecipient,
		"alertMessage":   cfg.AlertMessage,
		"hasAppPassword": cfg.AppPasswordEnvelope != "",
	})
}

// handleSaveSMSConfig stores the settings. A blank appPassword keeps the
// previously stored one, so the UI can resubmit the form without ever seeing
// the password.
func (s *Server) handleSaveSMSConfig(w http.ResponseWriter, r *http.Request) {
	var p smsConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if p.SenderEmail == "" {
		writeError(w, http.StatusBadRequest, "senderEmail is required")
		return
	}

	envelope := ""
	if p.AppPassword != "" {
		var err error
		envelope, err = s.Vault.Encrypt(p.AppPassword)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not store password")
			return
		}
	} else {
		// blank password means "keep the stored one"; a failed lookup here
		// must not save an empty envelope over it
		prev, err := s.SMSConfig.GetSMSConfig(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "config lookup error")
			return
		}
		if prev != nil {
			envelope = prev.AppPasswordEnvelope
		}
	}

	for _, rcpt := range p.Recipients {
		if gateway.ToGatewayEmail(rcpt.PhoneNumber, rcpt.Carrier) == "" {
			s.Logger.Warn("unresolvable_recipient",
				zap.String("phone", rcpt.PhoneNumber),
				zap.String("carrier", rcpt.Carrier),
			)
		}
	}

	cfg := domain.SMSConfig{
		SenderEmail:         p.SenderEmail,
		AppPasswordEnvelope: envelope,
		Recipients:          p.Recipients,
		LegacyRecipient:     p.Recipient,
		AlertMessage:        p.AlertMessage,
	}
	if err := s.SMSConfig.SaveSMSConfig(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "could not save config")
		return
	}

	s.Logger.Info("sms_config_saved",
		zap.String("sender", p.SenderEmail),
		zap.Int("recipients", len(p.Recipients)),
		zap.Bool("password_updated", p.AppPassword != ""),
	)
	w.WriteHeader(http.StatusNoContent)
}

type testSendPayload struct {
	Message string `json:"message"`
}

// handleTestSend pushes one message through the full delivery path so an
// operator can verify the settings end to end.
func (s *Server) handleTestSend(w http.ResponseWriter, r *http.Request) {
	var p testSendPayload
	_ = json.NewDecoder(r.Body).Decode(&p)
	msg := p.Message
	if msg == "" {
		msg = "Test alert: SMS notifications are configured correctly."
	}

	res := s.Notifier.SendAlert(r.Context(), msg, notify.SendOptions{})
	code := http.StatusOK
	if !res.Success {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, res)
}

// ---- misc reads ----

func (s *Server) handleListCarriers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gateway.Carriers())
}

func (s *Server) handleAlertHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 500 {
		limit = 500
	}

	evs, err := s.History.RecentEvents(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history lookup error")
		return
	}
	writeJSON(w, http.StatusOK, evs)
}
