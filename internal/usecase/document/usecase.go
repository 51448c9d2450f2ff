package document

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	appDomain "crediflow-backend/internal/domain/application"
	auditDomain "crediflow-backend/internal/domain/audit"
	docDomain "crediflow-backend/internal/domain/document"
	"crediflow-backend/internal/domain/uow"
	"crediflow-backend/internal/usecase/verification"
	"crediflow-backend/pkg/id"

	"gorm.io/gorm"
)

// ObjectStorage is the opaque file store behind the pipeline.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
	PublicURL(path string) string
}

// TextExtractor produces best-effort plain text; empty text means "no
// information extracted", never an error.
type TextExtractor interface {
	Extract(ctx context.Context, file []byte, tipo docDomain.Type) (text, method string)
}

// VerificationSubmitter starts an identity verification for the uploaded
// dni document. Best-effort; the submitter records its own failures.
type VerificationSubmitter interface {
	Submit(ctx context.Context, solicitudID string, doc []byte, filename string) (*verification.SubmitDTO, error)
}

// Recomputer refreshes the persisted application score.
type Recomputer interface {
	Recompute(ctx context.Context, solicitudID string) error
}

type Usecase struct {
	uow       uow.UnitOfWork
	storage   ObjectStorage
	extractor TextExtractor
	verify    VerificationSubmitter
	recompute Recomputer
}

func NewUsecase(tx uow.UnitOfWork, storage ObjectStorage, extractor TextExtractor, verify VerificationSubmitter, recompute Recomputer) *Usecase {
	return &Usecase{uow: tx, storage: storage, extractor: extractor, verify: verify, recompute: recompute}
}

// Upload runs the intake pipeline: store the file, persist the metadata row
// (replacing any previous document of the same type), extract and parse
// fields, then kick off identity verification for dni documents. Extraction
// and verification are best-effort: the upload succeeds even when both fail
// and a reviewer can still validate the document manually.
func (u *Usecase) Upload(ctx context.Context, in UploadInput) (*DocumentDTO, error) {
	if !in.Tipo.Valid() {
		return nil, docDomain.ErrInvalidType
	}
	if len(in.Contenido) == 0 || strings.TrimSpace(in.NombreArchivo) == "" {
		return nil, errors.New("empty file")
	}

	doc := &docDomain.Document{
		DocumentoID:   id.NewID32(),
		SolicitudID:   in.SolicitudID,
		Tipo:          in.Tipo,
		NombreArchivo: in.NombreArchivo,
		TamanioBytes:  int64(len(in.Contenido)),
		Estado:        docDomain.StatusPendiente,
	}
	doc.RutaStorage = fmt.Sprintf("%s/%s/%s-%s", in.SolicitudID, in.Tipo, doc.DocumentoID, in.NombreArchivo)

	// file first: a storage failure aborts before any metadata exists.
	if err := u.storage.Upload(ctx, doc.RutaStorage, in.Contenido, in.ContentType); err != nil {
		return nil, err
	}

	var replacedPath string
	err := u.uow.WithinApplicationTx(ctx, in.SolicitudID, func(r uow.Repos, a *appDomain.Application) error {
		if a.Estado.Terminal() {
			return appDomain.ErrInvalidTransition
		}
		// one document per type: an update replaces, not appends.
		if prev, err := r.Documents.FindByApplicationAndType(ctx, in.SolicitudID, in.Tipo); err == nil {
			replacedPath = prev.RutaStorage
			if err := r.Documents.Delete(ctx, prev); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		return r.Audits.Append(ctx, &auditDomain.Entry{
			SolicitudID:    in.SolicitudID,
			Actor:          in.Actor,
			Accion:         "documento_subido",
			EstadoAnterior: string(a.Estado),
			EstadoNuevo:    string(a.Estado),
			Detalle:        fmt.Sprintf("tipo=%s archivo=%s", in.Tipo, in.NombreArchivo),
		})
	})
	if err != nil {
		// orphaned file: compensate with a best-effort delete.
		if rmErr := u.storage.Remove(ctx, doc.RutaStorage); rmErr != nil {
			log.Printf("document: compensating remove %s failed: %v", doc.RutaStorage, rmErr)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appDomain.ErrNotFound
		}
		return nil, err
	}
	if replacedPath != "" {
		if err := u.storage.Remove(ctx, replacedPath); err != nil {
			log.Printf("document: removing replaced file %s failed: %v", replacedPath, err)
		}
	}

	method := u.runExtraction(ctx, doc, in.Contenido)

	if in.Tipo == docDomain.TypeDNI {
		if _, err := u.verify.Submit(ctx, in.SolicitudID, in.Contenido, in.NombreArchivo); err != nil {
			log.Printf("document: identity verification submit failed: %v", err)
		}
	}

	if err := u.recompute.Recompute(ctx, in.SolicitudID); err != nil {
		log.Printf("document: recompute after upload failed: %v", err)
	}

	dto := u.toDTO(doc)
	dto.MetodoExtraccion = method
	return dto, nil
}

// runExtraction extracts and parses after the row exists; misses are not
// errors and leave informacion_extraida null.
func (u *Usecase) runExtraction(ctx context.Context, doc *docDomain.Document, contenido []byte) string {
	text, method := u.extractor.Extract(ctx, contenido, doc.Tipo)
	fields := ParseFields(doc.Tipo, text)
	if fields == nil {
		log.Printf("document: no fields extracted for %s (%s)", doc.DocumentoID, doc.Tipo)
		return method
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Documents.GetByDocumentIDForUpdate(ctx, doc.DocumentoID)
		if err != nil {
			return err
		}
		d.InformacionExtraida = fields
		if err := r.Documents.Save(ctx, d); err != nil {
			return err
		}
		*doc = *d
		return nil
	})
	if err != nil {
		log.Printf("document: persisting extracted fields for %s failed: %v", doc.DocumentoID, err)
	}
	return method
}

// Validate is the explicit human validation of one document.
func (u *Usecase) Validate(ctx context.Context, documentoID string, in ValidateInput) (*DocumentDTO, error) {
	if in.Rol != appDomain.RolRevisor {
		return nil, appDomain.ErrReviewerRequired
	}
	return u.setStatus(ctx, documentoID, docDomain.StatusValidado, in.Actor, "documento_validado", in.Comentario)
}

// Evaluate applies a reviewer checklist to one document. It never moves the
// application state by itself; it only settles the document and refreshes
// the score.
func (u *Usecase) Evaluate(ctx context.Context, documentoID string, in EvaluateInput) (*DocumentDTO, error) {
	if in.Rol != appDomain.RolRevisor {
		return nil, appDomain.ErrReviewerRequired
	}
	if len(in.Criterios) == 0 {
		return nil, errors.New("empty checklist")
	}

	var failed []string
	for name, ok := range in.Criterios {
		if !ok {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)

	estado := docDomain.StatusValidado
	comment := in.Comentario
	accion := "documento_evaluado_ok"
	if len(failed) > 0 {
		estado = docDomain.StatusRechazado
		accion = "documento_evaluado_rechazado"
		detail := "criterios incumplidos: " + strings.Join(failed, ", ")
		if comment == "" {
			comment = detail
		} else {
			comment += " | " + detail
		}
	}
	return u.setStatus(ctx, documentoID, estado, in.Actor, accion, comment)
}

func (u *Usecase) setStatus(ctx context.Context, documentoID string, estado docDomain.Status, actor, accion, comentario string) (*DocumentDTO, error) {
	d, err := u.getDocument(ctx, documentoID)
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinApplicationTx(ctx, d.SolicitudID, func(r uow.Repos, a *appDomain.Application) error {
		locked, err := r.Documents.GetByDocumentIDForUpdate(ctx, documentoID)
		if err != nil {
			return err
		}
		locked.Estado = estado
		if comentario != "" {
			locked.Comentarios = comentario
		}
		if estado == docDomain.StatusValidado {
			now := time.Now().UTC()
			locked.ValidadoEn = &now
		} else {
			locked.ValidadoEn = nil
		}
		if err := r.Documents.Save(ctx, locked); err != nil {
			return err
		}
		d = locked
		return r.Audits.Append(ctx, &auditDomain.Entry{
			SolicitudID:    d.SolicitudID,
			Actor:          actor,
			Accion:         accion,
			EstadoAnterior: string(a.Estado),
			EstadoNuevo:    string(a.Estado),
			Detalle:        fmt.Sprintf("documento=%s tipo=%s estado=%s", d.DocumentoID, d.Tipo, estado),
		})
	})
	if err != nil {
		return nil, err
	}

	if err := u.recompute.Recompute(ctx, d.SolicitudID); err != nil {
		log.Printf("document: recompute after %s failed: %v", accion, err)
	}
	return u.toDTO(d), nil
}

// Delete removes the document row and its backing stored file.
func (u *Usecase) Delete(ctx context.Context, documentoID, actor string) error {
	d, err := u.getDocument(ctx, documentoID)
	if err != nil {
		return err
	}

	err = u.uow.WithinApplicationTx(ctx, d.SolicitudID, func(r uow.Repos, a *appDomain.Application) error {
		locked, err := r.Documents.GetByDocumentIDForUpdate(ctx, documentoID)
		if err != nil {
			return err
		}
		if err := r.Documents.Delete(ctx, locked); err != nil {
			return err
		}
		return r.Audits.Append(ctx, &auditDomain.Entry{
			SolicitudID:    d.SolicitudID,
			Actor:          actor,
			Accion:         "documento_eliminado",
			EstadoAnterior: string(a.Estado),
			EstadoNuevo:    string(a.Estado),
			Detalle:        fmt.Sprintf("documento=%s tipo=%s", d.DocumentoID, d.Tipo),
		})
	})
	if err != nil {
		return err
	}

	if rmErr := u.storage.Remove(ctx, d.RutaStorage); rmErr != nil {
		log.Printf("document: removing stored file %s failed: %v", d.RutaStorage, rmErr)
	}
	if err := u.recompute.Recompute(ctx, d.SolicitudID); err != nil {
		log.Printf("document: recompute after delete failed: %v", err)
	}
	return nil
}

func (u *Usecase) List(ctx context.Context, solicitudID string) ([]DocumentDTO, error) {
	var docs []docDomain.Document
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Applications.GetBySolicitudID(ctx, solicitudID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appDomain.ErrNotFound
			}
			return err
		}
		var err error
		docs, err = r.Documents.ListByApplicationID(ctx, solicitudID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]DocumentDTO, 0, len(docs))
	for i := range docs {
		out = append(out, *u.toDTO(&docs[i]))
	}
	return out, nil
}

func (u *Usecase) getDocument(ctx context.Context, documentoID string) (*docDomain.Document, error) {
	var d *docDomain.Document
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		d, err = r.Documents.GetByDocumentID(ctx, documentoID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, docDomain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (u *Usecase) toDTO(d *docDomain.Document) *DocumentDTO {
	return &DocumentDTO{
		DocumentoID:         d.DocumentoID,
		SolicitudID:         d.SolicitudID,
		Tipo:                string(d.Tipo),
		NombreArchivo:       d.NombreArchivo,
		TamanioBytes:        d.TamanioBytes,
		Estado:              string(d.Estado),
		InformacionExtraida: d.InformacionExtraida,
		Comentarios:         d.Comentarios,
		URL:                 u.storage.PublicURL(d.RutaStorage),
		ValidadoEn:          d.ValidadoEn,
		CreatedAt:           d.CreatedAt,
	}
}
