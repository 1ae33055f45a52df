package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/armaan-gp-school/ossf-scada/internal/alert"
	"github.com/armaan-gp-school/ossf-scada/internal/domain"
	"github.com/armaan-gp-school/ossf-scada/internal/metrics"
	"github.com/armaan-gp-school/ossf-scada/internal/notify"
	"github.com/armaan-gp-school/ossf-scada/internal/registry"
	"github.com/armaan-gp-school/ossf-scada/internal/repo"
)

// Orchestrator runs the evaluation pass for a device: fetch the current
// property readings, evaluate each against its threshold, and drive the
// per-property notification episode state through the marker store.
//
// Episode state machine per (device, property):
//
//	marker absent,  not in alert  -> no-op
//	marker absent,  in alert      -> notify; create marker only on success
//	marker present, in alert      -> no-op (suppress duplicate)
//	marker present, not in alert  -> clear marker (episode over)
//
// A failed send leaves the marker absent on purpose: the next pass retries
// until the send succeeds or the value returns to range.
type Orchestrator struct {
	Logger     *zap.Logger
	Source     registry.Source
	Thresholds repo.ThresholdStore
	Markers    repo.MarkerStore
	History    repo.HistoryStore
	Notifier   notify.Notifier
}

// EvalResult mirrors what the dashboard needs from one device pass.
type EvalResult struct {
	Alerts     []domain.PropertyAlert `json:"alerts"`
	AlertCount int                    `json:"alertCount"`
}

// EvaluateDevice evaluates every numeric property of one device. When
// sendNotifications is false the pass is read-only: no sends, no marker
// writes. A registry fetch failure yields an empty result, never an error,
// so one unreachable device cannot abort a fleet pass.
func (o *Orchestrator) EvaluateDevice(ctx context.Context, dev domain.Device, sendNotifications bool) EvalResult {
	thing, err := o.Source.GetThing(ctx, string(dev.ID))
	if err != nil {
		o.Logger.Warn("device_fetch_failed",
			zap.String("device_id", string(dev.ID)),
			zap.Error(err),
		)
		metrics.EvaluationsTotal.WithLabelValues("fetch_failed").Inc()
		return EvalResult{Alerts: []domain.PropertyAlert{}}
	}
	metrics.EvaluationsTotal.WithLabelValues("ok").Inc()

	deviceName := dev.Name
	if deviceName == "" {
		deviceName = thing.Name
	}

	out := EvalResult{Alerts: make([]domain.PropertyAlert, 0, len(thing.Properties))}
	for _, prop := range thing.Properties {
		if !alert.IsNumericType(prop.Type) {
			// inert property: no threshold lookup, no marker traffic
			continue
		}
		metrics.PropertiesEvaluated.Inc()

		threshold, err := o.Thresholds.GetThreshold(ctx, dev.ID, prop.ID)
		if err != nil {
			// fall back to type defaults rather than failing the pass
			o.Logger.Warn("threshold_lookup_failed",
				zap.String("device_id", string(dev.ID)),
				zap.String("property_id", prop.ID),
				zap.Error(err),
			)
			threshold = nil
		}

		inAlert := alert.IsPropertyInAlert(prop, threshold)
		out.Alerts = append(out.Alerts, domain.PropertyAlert{
			PropertyID: prop.ID,
			Name:       prop.DisplayName(),
			InAlert:    inAlert,
		})

		if inAlert {
			out.AlertCount++
			if sendNotifications {
				o.notifyOnce(ctx, dev.ID, deviceName, prop)
			}
			continue
		}
		if sendNotifications {
			if err := o.Markers.ClearMarker(ctx, dev.ID, prop.ID); err != nil {
				o.Logger.Warn("marker_clear_failed",
					zap.String("device_id", string(dev.ID)),
					zap.String("property_id", prop.ID),
					zap.Error(err),
				)
			}
		}
	}
	return out
}

// notifyOnce sends for a property in alert unless its episode was already
// notified. The marker is only created after a successful send.
func (o *Orchestrator) notifyOnce(ctx context.Context, deviceID domain.DeviceID, deviceName string, prop domain.Property) {
	sent, err := o.Markers.HasMarker(ctx, deviceID, prop.ID)
	if err != nil {
		o.Logger.Warn("marker_read_failed",
			zap.String("device_id", string(deviceID)),
			zap.String("property_id", prop.ID),
			zap.Error(err),
		)
		return
	}
	if sent {
		return
	}

	res := o.Notifier.SendAlert(ctx, "", notify.SendOptions{
		DeviceName:   deviceName,
		PropertyName: prop.DisplayName(),
		Value:        prop.LastValue,
	})

	o.recordAttempt(ctx, deviceID, prop, res)

	if !res.Success {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		o.Logger.Warn("alert_notify_failed",
			zap.String("device_id", string(deviceID)),
			zap.String("property_id", prop.ID),
			zap.String("error", res.Error),
		)
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()

	if err := o.Markers.SetMarker(ctx, deviceID, prop.ID); err != nil {
		// worst case the next pass re-sends; better than silently dropping
		// the episode
		o.Logger.Error("marker_set_failed",
			zap.String("device_id", string(deviceID)),
			zap.String("property_id", prop.ID),
			zap.Error(err),
		)
	}
	o.Logger.Info("alert_notified",
		zap.String("device_id", string(deviceID)),
		zap.String("property_id", prop.ID),
	)
}

func (o *Orchestrator) recordAttempt(ctx context.Context, deviceID domain.DeviceID, prop domain.Property, res notify.Result) {
	if o.History == nil {
		return
	}
	value := ""
	if prop.LastValue != nil {
		value = fmt.Sprint(prop.LastValue)
	}
	ev := &domain.AlertEvent{
		DeviceID:   deviceID,
		PropertyID: prop.ID,
		Value:      value,
		Recipients: res.Recipients,
		Success:    res.Success,
		Error:      res.Error,
		SentAt:     time.Now().UTC(),
	}
	if err := o.History.AppendEvent(ctx, ev); err != nil {
		o.Logger.Warn("history_append_failed", zap.Error(err))
	}
}
