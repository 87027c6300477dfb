package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
	"github.com/dmitrijs2005/scalehub/internal/server/models"
)

// deviceDTO converts a device row to its wire form.
func deviceDTO(d *models.Device) scaleapi.Device {
	return scaleapi.Device{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Host:        d.Host,
		Port:        d.Port,
		Protocol:    scaleapi.Protocol(d.Protocol),
		CachedDirty: d.CachedDirty,
		CachedCount: d.CachedCount,
		AutoUpdate: scaleapi.AutoUpdate{
			Enabled:         d.AutoUpdateEnabled,
			IntervalMinutes: d.AutoUpdateIntervalMinutes,
			LastRunUTC:      d.AutoUpdateLastRun,
		},
	}
}

// deviceID pulls the {id} path parameter. A non-numeric id is answered
// with a 422 detail array and reported through the bool.
func deviceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := scaleapi.ParseDeviceID(chi.URLParam(r, "id"))
	if err != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, []scaleapi.FieldError{
			fieldError("value is not a valid integer", "type_error.integer", "path", "id"),
		})
		return 0, false
	}
	return id, true
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.devices.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]scaleapi.Device, 0, len(devices))
	for _, d := range devices {
		out = append(out, deviceDTO(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var spec scaleapi.DeviceSpec
	if !s.decodeJSON(w, r, &spec) {
		return
	}

	d, err := s.devices.Create(r.Context(), userIDFrom(r.Context()), spec)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deviceDTO(d))
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	d, err := s.devices.Get(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deviceDTO(d))
}

func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	var spec scaleapi.DeviceSpec
	if !s.decodeJSON(w, r, &spec) {
		return
	}

	d, err := s.devices.Update(r.Context(), userIDFrom(r.Context()), id, spec)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deviceDTO(d))
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	if err := s.devices.Delete(r.Context(), userIDFrom(r.Context()), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGetAutoUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	d, err := s.devices.Get(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deviceDTO(d).AutoUpdate)
}

func (s *Server) handleSetAutoUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	var spec scaleapi.AutoUpdateSpec
	if !s.decodeJSON(w, r, &spec) {
		return
	}

	d, err := s.devices.SetAutoUpdate(r.Context(), userIDFrom(r.Context()), id, spec)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deviceDTO(d).AutoUpdate)
}
