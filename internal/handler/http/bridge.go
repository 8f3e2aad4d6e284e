package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asistia/asistencia-backend-go/internal/domain/attendance"
	"github.com/asistia/asistencia-backend-go/internal/domain/device"
	"github.com/asistia/asistencia-backend-go/internal/handler/http/response"
	"github.com/asistia/asistencia-backend-go/internal/pkg/jwt"
	"github.com/asistia/asistencia-backend-go/internal/pkg/validator"
)

// BridgeHandler is the hardware boundary: fingerprint bridges exchange
// their serial and shared secret for a device token, then post raw
// entry/exit events against it.
type BridgeHandler interface {
	Auth(w http.ResponseWriter, r *http.Request)
	Event(w http.ResponseWriter, r *http.Request)
}

type bridgeHandlerImpl struct {
	deviceService device.DeviceService
	ledger        attendance.LedgerService
	jwtService    jwt.Service
}

func NewBridgeHandler(deviceService device.DeviceService, ledger attendance.LedgerService, jwtService jwt.Service) BridgeHandler {
	return &bridgeHandlerImpl{
		deviceService: deviceService,
		ledger:        ledger,
		jwtService:    jwtService,
	}
}

type bridgeAuthRequest struct {
	Serial string `json:"serial"`
	Secret string `json:"secret"`
}

type bridgeAuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Auth implements BridgeHandler.
func (h *bridgeHandlerImpl) Auth(w http.ResponseWriter, r *http.Request) {
	var req bridgeAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if validator.IsEmpty(req.Serial) || validator.IsEmpty(req.Secret) {
		response.BadRequest(w, "Fields 'serial' and 'secret' are required", nil)
		return
	}

	d, err := h.deviceService.Authenticate(r.Context(), req.Serial, req.Secret)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateDeviceToken(d.ID, d.Serial)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, bridgeAuthResponse{Token: token, ExpiresAt: expiresAt})
}

type bridgeEventRequest struct {
	UserID               string     `json:"user_id"`
	EventType            string     `json:"event_type"`
	EventTimestamp       *time.Time `json:"event_timestamp"`
	ScheduleAssignmentID *string    `json:"schedule_assignment_id"`
}

// Event implements BridgeHandler. Sensor events always carry the
// FINGERPRINT method; which shift the event belongs to is resolved by the
// ledger unless the bridge pins one explicitly.
func (h *bridgeHandlerImpl) Event(w http.ResponseWriter, r *http.Request) {
	var req bridgeEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if req.EventType != "entrada" && req.EventType != "salida" {
		response.BadRequest(w, "Field 'event_type' must be 'entrada' or 'salida'", nil)
		return
	}

	ledgerReq := attendance.RegisterRequest{
		UserID:               req.UserID,
		ScheduleAssignmentID: req.ScheduleAssignmentID,
		Method:               string(attendance.MethodFingerprint),
		EventTimestamp:       req.EventTimestamp,
	}

	var result attendance.Outcome
	var err error
	if req.EventType == "entrada" {
		result, err = h.ledger.RegisterEntrada(r.Context(), ledgerReq)
	} else {
		result, err = h.ledger.RegisterSalida(r.Context(), ledgerReq)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Event registered", result)
}
