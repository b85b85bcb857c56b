package admin

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/getmockd/mockd/internal/store"
	"github.com/getmockd/mockd/pkg/engine"
	"github.com/getmockd/mockd/pkg/requestlog"
)

// Handler serves the /__admin REST surface over one engine.ServerContext.
// Routes are registered on a plain http.ServeMux; path matching for the
// {id}-suffixed routes is done by hand since the stdlib mux predating Go
// 1.22 wildcard patterns is what this codebase otherwise relies on
// elsewhere (spec.md 6).
type Handler struct {
	ctx *engine.ServerContext
}

// NewHandler returns an admin Handler over ctx.
func NewHandler(ctx *engine.ServerContext) *Handler {
	return &Handler{ctx: ctx}
}

// Mux builds the http.Handler that should be mounted at /__admin/.
func (h *Handler) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/__admin/mappings", h.mappingsCollection)
	mux.HandleFunc("/__admin/mappings/", h.mappingByID)
	mux.HandleFunc("/__admin/requests", h.requestsCollection)
	mux.HandleFunc("/__admin/requests/find", h.requestsFind)
	mux.HandleFunc("/__admin/scenarios", h.scenariosCollection)
	mux.HandleFunc("/__admin/scenarios/", h.scenarioState)
	mux.HandleFunc("/__admin/settings", h.settings)
	return mux
}

// hasJSONBody reports whether r carries a JSON body, tolerating a
// trailing charset parameter (spec.md 6: "application/json; charset=...").
func hasJSONBody(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(ct), "application/json")
	}
	return mediaType == "application/json"
}

func (h *Handler) mappingsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		mappings := h.ctx.Store.List()
		out := make([]MappingDTO, 0, len(mappings))
		for _, m := range mappings {
			out = append(out, FromMapping(m))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		if !hasJSONBody(r) {
			writeError(w, http.StatusUnsupportedMediaType, ErrMsgInvalidJSON)
			return
		}
		raw, err := decodeJSON(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validateMappingPayload(raw); err != nil {
			writeError(w, http.StatusUnprocessableEntity, sanitizeValidationError(err, h.ctx.Log))
			return
		}
		dto, err := decodeMappingDTO(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, sanitizeValidationError(err, h.ctx.Log))
			return
		}
		m, err := ToMapping(dto)
		if err != nil {
			writeError(w, http.StatusBadRequest, sanitizeValidationError(err, h.ctx.Log))
			return
		}
		stored := h.ctx.Store.Add(m)
		writeJSON(w, http.StatusCreated, FromMapping(stored))

	case http.MethodDelete:
		h.ctx.Store.Reset()
		w.WriteHeader(http.StatusOK)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) mappingByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/__admin/mappings/")
	if id == "" {
		writeError(w, http.StatusNotFound, ErrMsgNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		m, ok := h.ctx.Store.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, ErrMsgNotFound)
			return
		}
		writeJSON(w, http.StatusOK, FromMapping(m))

	case http.MethodPut:
		raw, err := decodeJSON(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validateMappingPayload(raw); err != nil {
			writeError(w, http.StatusUnprocessableEntity, sanitizeValidationError(err, h.ctx.Log))
			return
		}
		dto, err := decodeMappingDTO(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, sanitizeValidationError(err, h.ctx.Log))
			return
		}
		dto.ID = id
		m, err := ToMapping(dto)
		if err != nil {
			writeError(w, http.StatusBadRequest, sanitizeValidationError(err, h.ctx.Log))
			return
		}
		stored, err := h.ctx.Store.Update(m)
		if err != nil {
			writeError(w, http.StatusNotFound, ErrMsgNotFound)
			return
		}
		writeJSON(w, http.StatusOK, FromMapping(stored))

	case http.MethodDelete:
		if err := h.ctx.Store.Delete(id); err != nil {
			writeError(w, http.StatusNotFound, ErrMsgNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) requestsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries := h.ctx.Requests.List(nil)
		writeJSON(w, http.StatusOK, entries)

	case http.MethodDelete:
		h.ctx.Requests.Reset()
		w.WriteHeader(http.StatusOK)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// requestsFind implements POST /__admin/requests/find: the body is a
// MatcherDTO applied against every logged request's stored
// RequestMessage, mirroring spec.md 4.8's "filters accept a MatchTree".
func (h *Handler) requestsFind(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var dto MatcherDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, sanitizeValidationError(err, h.ctx.Log))
		return
	}
	tree, err := ToMatcher(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, sanitizeValidationError(err, h.ctx.Log))
		return
	}
	entries := h.ctx.Requests.List(requestlog.MatcherFilter(tree))
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) scenariosCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		names := h.ctx.Scenarios.Names()
		out := make([]map[string]string, 0, len(names))
		for _, name := range names {
			out = append(out, map[string]string{"name": name, "state": h.ctx.Scenarios.StateOf(name)})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodDelete:
		h.ctx.Scenarios.Reset()
		w.WriteHeader(http.StatusOK)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// scenarioState implements POST /__admin/scenarios/{name}/state, forcibly
// setting a scenario's state (spec.md 4.9).
func (h *Handler) scenarioState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/__admin/scenarios/")
	name := strings.TrimSuffix(rest, "/state")
	if name == "" || name == rest {
		writeError(w, http.StatusNotFound, ErrMsgNotFound)
		return
	}

	var body struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, sanitizeValidationError(err, h.ctx.Log))
		return
	}
	h.ctx.Scenarios.SetState(name, body.State)
	w.WriteHeader(http.StatusOK)
}

// settings implements GET/PUT /__admin/settings (spec.md 6: "get/update
// settings (delay, request-log capacity)").
func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, FromSettings(h.ctx.Settings(), h.ctx.Requests.Capacity()))

	case http.MethodPut:
		var dto SettingsDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, sanitizeValidationError(err, h.ctx.Log))
			return
		}
		h.ctx.SetSettings(ToSettings(dto))
		h.ctx.Requests.Resize(dto.RequestLogCapacity)
		writeJSON(w, http.StatusOK, FromSettings(h.ctx.Settings(), h.ctx.Requests.Capacity()))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// decodeJSON reads r's body into a generic JSON value, the shape the
// jsonschema validator expects, without committing to MappingDTO's
// stricter Go types.
func decodeJSON(r *http.Request) (any, error) {
	var raw any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// decodeMappingDTO re-marshals a generic JSON value already validated by
// validateMappingPayload into the strongly typed MappingDTO.
func decodeMappingDTO(raw any) (MappingDTO, error) {
	var dto MappingDTO
	b, err := json.Marshal(raw)
	if err != nil {
		return dto, err
	}
	err = json.Unmarshal(b, &dto)
	return dto, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
