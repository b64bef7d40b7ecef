package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/repository"
)

type condominiumRequest struct {
	Name             *string `json:"nome"`
	CNPJ             *string `json:"cnpj"`
	ManagementSystem *string `json:"sistema_gestao"`
	UnitType         *string `json:"tipo_unidade"`
	Trustee          *string `json:"sindico"`
	Phone            *string `json:"telefone"`
}

var (
	managementSystems = []string{"superlogica", "condomob", "brcondominios"}
	unitTypes         = []string{"casa", "apartamento", "lote"}
)

func (c condominiumRequest) validate(create bool) error {
	v := common.NewValidator()
	if create || c.Name != nil {
		v.Field("nome", c.Name, common.Required, common.MaxLen(200))
	}
	v.Field("cnpj", deref(c.CNPJ), common.CNPJ).
		Field("sistema_gestao", deref(c.ManagementSystem), common.OneOf(managementSystems...)).
		Field("tipo_unidade", deref(c.UnitType), common.OneOf(unitTypes...)).
		Field("sindico", deref(c.Trustee), common.MaxLen(200)).
		Field("telefone", deref(c.Phone), common.MaxLen(40))
	return common.ValidateAndReturnError(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func lower(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.ToLower(strings.TrimSpace(*s))
	return &t
}

func (s *Server) registry(w http.ResponseWriter, r *http.Request) bool {
	if s.condominiums == nil {
		writeError(w, r, s.logger, common.NewAppError("NO_REGISTRY", "cadastro de condomínios indisponível", common.ErrInternal))
		return false
	}
	return true
}

func decodeCondominium(w http.ResponseWriter, r *http.Request) (condominiumRequest, error) {
	var req condominiumRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, badRequest("BAD_JSON", "corpo JSON inválido: "+err.Error())
	}
	return req, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("BAD_ID", "id inválido")
	}
	return id, nil
}

// POST /condominiums
func (s *Server) handleCreateCondominium(w http.ResponseWriter, r *http.Request) {
	if !s.registry(w, r) {
		return
	}
	req, err := decodeCondominium(w, r)
	if err == nil {
		err = req.validate(true)
	}
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	c, err := s.condominiums.Create(r.Context(), &repository.Condominium{
		Name:             deref(req.Name),
		CNPJ:             deref(req.CNPJ),
		ManagementSystem: deref(lower(req.ManagementSystem)),
		UnitType:         deref(lower(req.UnitType)),
		Trustee:          deref(req.Trustee),
		Phone:            deref(req.Phone),
	})
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GET /condominiums?search=
func (s *Server) handleListCondominiums(w http.ResponseWriter, r *http.Request) {
	if !s.registry(w, r) {
		return
	}
	list, err := s.condominiums.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /condominiums/{id}
func (s *Server) handleGetCondominium(w http.ResponseWriter, r *http.Request) {
	if !s.registry(w, r) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	c, err := s.condominiums.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// PATCH /condominiums/{id}
func (s *Server) handleUpdateCondominium(w http.ResponseWriter, r *http.Request) {
	if !s.registry(w, r) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	req, err := decodeCondominium(w, r)
	if err == nil {
		err = req.validate(false)
	}
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	c, err := s.condominiums.Update(r.Context(), id, repository.CondominiumPatch{
		Name:             trimmed(req.Name),
		CNPJ:             trimmed(req.CNPJ),
		ManagementSystem: lower(req.ManagementSystem),
		UnitType:         lower(req.UnitType),
		Trustee:          trimmed(req.Trustee),
		Phone:            trimmed(req.Phone),
	})
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
