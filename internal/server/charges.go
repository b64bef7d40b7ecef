package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/condo-contacts/constants"
	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/pipeline"
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// POST /cobrancas/{vendor}
func (s *Server) handleCharges(w http.ResponseWriter, r *http.Request) {
	s.reconcile(w, r, "")
}

// POST /oracle/{vendor}
func (s *Server) handleOracle(w http.ResponseWriter, r *http.Request) {
	s.reconcile(w, r, pipeline.ModeOracle)
}

func (s *Server) reconcile(w http.ResponseWriter, r *http.Request, force pipeline.Mode) {
	opts, title, err := s.options(r, force)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	format, err := outputFormat(r, "json", "report", "xlsx")
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.parseUploads(w, r); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	contacts, err := s.saveUpload(r, "contatos")
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	defer contacts.Remove()
	delinquent, err := s.saveUpload(r, "inadimplentes")
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	defer delinquent.Remove()

	rep, err := s.pipe.ReconcileFiles(r.Context(), contacts.Path, delinquent.Path, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	switch format {
	case "report":
		writeJSON(w, http.StatusOK, rep)
	case "xlsx":
		b, err := s.export.ReportXLSX(rep, title)
		if err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		writeXLSX(w, "inadimplentes.xlsx", b)
	default:
		writeJSON(w, http.StatusOK, rep.Data)
	}
}

// POST /contatos/{vendor}
func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	opts, title, err := s.options(r, "")
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	format, err := outputFormat(r, "json", "xlsx")
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.parseUploads(w, r); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	contacts, err := s.saveUpload(r, "contatos")
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	defer contacts.Remove()

	text, err := s.pipe.ReadText(r.Context(), contacts.Path, "contatos")
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	list, _, err := s.pipe.ContactList(r.Context(), text, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if format == "xlsx" {
		b, err := s.export.ContactsXLSX(list, title)
		if err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		writeXLSX(w, "contatos.xlsx", b)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// options reads the vendor segment and query parameters. A condominium_id fills in the
// vendor (when the route says auto) and the unit type from the registry.
func (s *Server) options(r *http.Request, force pipeline.Mode) (pipeline.Options, string, error) {
	vendor, ok := constants.CanonicalizeVendor(r.PathValue("vendor"))
	if !ok {
		return pipeline.Options{}, "", badRequest("UNKNOWN_VENDOR",
			fmt.Sprintf("sistema %q não suportado; use %s", r.PathValue("vendor"), strings.Join(constants.AsStringSlice(), ", ")))
	}

	q := r.URL.Query()
	mode, ok := pipeline.ParseMode(q.Get("mode"))
	if !ok {
		return pipeline.Options{}, "", badRequest("BAD_MODE", "mode deve ser deterministic, oracle ou auto")
	}
	if force != "" {
		mode = force
	}

	opts := pipeline.Options{
		Vendor:  vendor,
		Dialect: q.Get("layout"),
		Mode:    mode,
		Filter: unitkey.Filter{
			Unit:      q.Get("unidade"),
			Apartment: q.Get("apto"),
			Block:     q.Get("bloco"),
			House:     q.Get("casa"),
		},
		Formatting: s.formatting,
	}

	title := ""
	if raw := strings.TrimSpace(q.Get("condominium_id")); raw != "" {
		if s.condominiums == nil {
			return opts, "", badRequest("NO_REGISTRY", "cadastro de condomínios indisponível")
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return opts, "", badRequest("BAD_ID", "condominium_id inválido")
		}
		c, err := s.condominiums.Get(r.Context(), id)
		if err != nil {
			return opts, "", err
		}
		if opts.Vendor == constants.AutoVendor {
			opts.Vendor = c.Vendor()
		}
		opts.Hint = c.Hint()
		title = c.Name
	}
	return opts, title, nil
}

func outputFormat(r *http.Request, allowed ...string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if f == "" {
		return allowed[0], nil
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", common.NewAppError("BAD_FORMAT", "format deve ser "+strings.Join(allowed, " ou "), common.ErrInvalidInput)
}

func writeXLSX(w http.ResponseWriter, name string, b []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
