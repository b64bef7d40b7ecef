package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/condo-contacts/constants"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle"
	"github.com/joseph-ayodele/condo-contacts/internal/roster"
)

type Layouts struct {
	Contatos      string `json:"contatos"`
	Inadimplentes string `json:"inadimplentes"`
}

type Totals struct {
	ContatosExtraidos int `json:"contatos_extraidos"`
	InadUnicos        int `json:"inad_unicos"`
	Match             int `json:"match"`
}

// Report is the envelope of one reconciliation. Data holds the delinquent owners.
type Report struct {
	Layouts Layouts             `json:"layouts"`
	Totais  Totals              `json:"totais"`
	Data    []roster.Contact    `json:"data"`
	Errors  []oracle.ChunkError `json:"erros,omitempty"`
}

// Reconcile reads both documents concurrently and returns the owners of delinquent units,
// filtered and rendered with opts.
func (p *Pipeline) Reconcile(ctx context.Context, contactsText, delinquentText string, opts Options) (Report, error) {
	start := time.Now()
	rid := requestID(ctx)

	cd, err := p.Dialect(contactsText, opts)
	if err != nil {
		return Report{}, err
	}
	dd, err := p.Dialect(delinquentText, opts)
	if err != nil {
		return Report{}, err
	}
	// a delinquency list with no recognizable layout is read with the contacts rules
	if dd.Name == constants.LayoutGeneric && cd.Name != constants.LayoutGeneric {
		dd = cd
	}

	var (
		contacts ContactsResult
		set      *roster.DelinquentSet
		setErrs  []oracle.ChunkError
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, err = p.contacts(gctx, cd, contactsText, opts)
		return err
	})
	g.Go(func() error {
		var err error
		set, setErrs, err = p.delinquent(gctx, dd, delinquentText, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Error("pipeline.reconcile.failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Report{}, err
	}

	matched := roster.Filter(roster.Reconcile(contacts.Roster, set), opts.Filter)
	rep := Report{
		Layouts: Layouts{Contatos: cd.Name, Inadimplentes: dd.Name},
		Totais: Totals{
			ContatosExtraidos: contacts.Roster.Len(),
			InadUnicos:        set.Len(),
			Match:             len(matched),
		},
		Data:   roster.Render(matched, opts.Formatting),
		Errors: append(contacts.Errors, setErrs...),
	}

	p.logger.Info("pipeline.reconcile.ok",
		"req_id", rid,
		"layout_contatos", rep.Layouts.Contatos,
		"layout_inadimplentes", rep.Layouts.Inadimplentes,
		"contatos", rep.Totais.ContatosExtraidos,
		"inadimplentes", rep.Totais.InadUnicos,
		"match", rep.Totais.Match,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rep, nil
}

// ContactList aggregates a contacts document and renders every owner, filtered by opts.
func (p *Pipeline) ContactList(ctx context.Context, text string, opts Options) ([]roster.Contact, ContactsResult, error) {
	res, err := p.Contacts(ctx, text, opts)
	if err != nil {
		return nil, res, err
	}
	return roster.Render(roster.Filter(res.Roster.Records(), opts.Filter), opts.Formatting), res, nil
}
