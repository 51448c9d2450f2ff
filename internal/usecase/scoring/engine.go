package scoring

import (
	"context"
	"errors"

	appDomain "crediflow-backend/internal/domain/application"
	docDomain "crediflow-backend/internal/domain/document"
	"crediflow-backend/internal/domain/uow"

	"gorm.io/gorm"
)

// RequiredTypes is the fixed set of document types counted toward the
// completeness score. estado_financiero can be uploaded but adds no points.
var RequiredTypes = []docDomain.Type{
	docDomain.TypeDNI,
	docDomain.TypeCUIT,
	docDomain.TypeComprobanteDomicilio,
	docDomain.TypeBalanceContable,
	docDomain.TypeDeclaracionImpuestos,
}

type ItemStatus string

const (
	ItemValidado  ItemStatus = "validado"
	ItemPendiente ItemStatus = "pendiente"
	ItemFaltante  ItemStatus = "faltante"
)

type Item struct {
	Points int        `json:"points"`
	Status ItemStatus `json:"status"`
}

type Result struct {
	Breakdown map[docDomain.Type]Item `json:"breakdown"`
	Total     int                     `json:"total"`
	Validated int                     `json:"validated"`
	Pending   int                     `json:"pending"`
	Risk      string                  `json:"nivel_riesgo"`
}

// Score computes the completeness breakdown for a document set. Each
// required type contributes a fixed weight (100 / required count) only while
// its document is validado; uploaded-but-unvalidated and missing both score
// zero but show up differently in the breakdown. Pure and order-independent.
func Score(docs []docDomain.Document) Result {
	weight := 100 / len(RequiredTypes)

	// one document per type: a replacement overwrote the previous row, but
	// be defensive about duplicates and keep the first in list order.
	byType := make(map[docDomain.Type]*docDomain.Document, len(docs))
	for i := range docs {
		if _, ok := byType[docs[i].Tipo]; !ok {
			byType[docs[i].Tipo] = &docs[i]
		}
	}

	res := Result{Breakdown: make(map[docDomain.Type]Item, len(RequiredTypes))}
	for _, tipo := range RequiredTypes {
		d, ok := byType[tipo]
		switch {
		case ok && d.Estado == docDomain.StatusValidado:
			res.Breakdown[tipo] = Item{Points: weight, Status: ItemValidado}
			res.Total += weight
			res.Validated++
		case ok:
			res.Breakdown[tipo] = Item{Points: 0, Status: ItemPendiente}
			res.Pending++
		default:
			res.Breakdown[tipo] = Item{Points: 0, Status: ItemFaltante}
			res.Pending++
		}
	}
	if res.Total > 100 {
		res.Total = 100
	}
	res.Risk = RiskTier(res.Total)
	return res
}

func RiskTier(total int) string {
	switch {
	case total >= 80:
		return appDomain.RiskLow
	case total >= 60:
		return appDomain.RiskMedium
	default:
		return appDomain.RiskHigh
	}
}

// Recomputer is the single choke point for refreshing an application's
// persisted score. Every document mutation ends with a Recompute call;
// concurrent recomputes are harmless because Score is a pure function of
// the current document set.
type Recomputer struct{ uow uow.UnitOfWork }

func NewRecomputer(tx uow.UnitOfWork) *Recomputer { return &Recomputer{uow: tx} }

func (r *Recomputer) Recompute(ctx context.Context, solicitudID string) error {
	return r.uow.WithinApplicationTx(ctx, solicitudID, func(repos uow.Repos, a *appDomain.Application) error {
		docs, err := repos.Documents.ListByApplicationID(ctx, solicitudID)
		if err != nil {
			return err
		}
		res := Score(docs)
		a.Puntaje = res.Total
		a.NivelRiesgo = res.Risk
		return repos.Applications.Save(ctx, a)
	})
}

// Snapshot computes the current breakdown without persisting anything.
func (r *Recomputer) Snapshot(ctx context.Context, solicitudID string) (*Result, error) {
	var res Result
	err := r.uow.WithinTx(ctx, func(repos uow.Repos) error {
		if _, err := repos.Applications.GetBySolicitudID(ctx, solicitudID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appDomain.ErrNotFound
			}
			return err
		}
		docs, err := repos.Documents.ListByApplicationID(ctx, solicitudID)
		if err != nil {
			return err
		}
		res = Score(docs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
