package mysql

import (
	"context"
	"errors"
	"testing"

	docDomain "crediflow-backend/internal/domain/document"
	"crediflow-backend/pkg/id"

	"gorm.io/gorm"
)

func makeDocument(documentoID, solicitudID string, tipo docDomain.Type) *docDomain.Document {
	return &docDomain.Document{
		DocumentoID:   documentoID,
		SolicitudID:   solicitudID,
		Tipo:          tipo,
		NombreArchivo: "dni_frente.pdf",
		RutaStorage:   solicitudID + "/" + documentoID + ".pdf",
		TamanioBytes:  48_123,
		Estado:        docDomain.StatusPendiente,
	}
}

func TestDocumentCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	documentoID := id.NewID32()
	solicitudID := id.NewID32()

	d := makeDocument(documentoID, solicitudID, docDomain.TypeDNI)
	d.InformacionExtraida = docDomain.ExtractedFields{"numero_documento": "30123456"}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByDocumentID(ctx, documentoID)
	if err != nil {
		t.Fatalf("GetByDocumentID: %v", err)
	}
	if got.SolicitudID != solicitudID || got.Tipo != docDomain.TypeDNI {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.TamanioBytes != 48_123 {
		t.Errorf("TamanioBytes = %d, want 48123", got.TamanioBytes)
	}
	if got.InformacionExtraida["numero_documento"] != "30123456" {
		t.Errorf("extracted fields lost on round-trip: %+v", got.InformacionExtraida)
	}
}

func TestDocumentExtractedFieldsNilStaysNil(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	documentoID := id.NewID32()
	d := makeDocument(documentoID, id.NewID32(), docDomain.TypeCUIT)
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByDocumentID(ctx, documentoID)
	if err != nil {
		t.Fatalf("GetByDocumentID: %v", err)
	}
	if got.InformacionExtraida != nil {
		t.Errorf("expected nil extracted fields, got %+v", got.InformacionExtraida)
	}
}

func TestDocumentFindByApplicationAndType(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	solicitudID := id.NewID32()
	first := makeDocument(id.NewID32(), solicitudID, docDomain.TypeCUIT)
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	other := makeDocument(id.NewID32(), solicitudID, docDomain.TypeDNI)
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	got, err := repo.FindByApplicationAndType(ctx, solicitudID, docDomain.TypeCUIT)
	if err != nil {
		t.Fatalf("FindByApplicationAndType: %v", err)
	}
	if got.DocumentoID != first.DocumentoID {
		t.Errorf("got %s, want %s", got.DocumentoID, first.DocumentoID)
	}

	_, err = repo.FindByApplicationAndType(ctx, solicitudID, docDomain.TypeBalanceContable)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDocumentDeleteIsSoft(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	solicitudID := id.NewID32()
	d := makeDocument(id.NewID32(), solicitudID, docDomain.TypeDNI)
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, d); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetByDocumentID(ctx, d.DocumentoID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	list, err := repo.ListByApplicationID(ctx, solicitudID)
	if err != nil {
		t.Fatalf("ListByApplicationID: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("deleted document still listed: %+v", list)
	}

	// row survives with deleted_at set
	var count int64
	if err := db.Table("documentos").Where("documento_id = ?", d.DocumentoID).Count(&count).Error; err != nil {
		t.Fatalf("raw count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected soft-deleted row to remain, count=%d", count)
	}
}

func TestDocumentListOrdersByInsertion(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	solicitudID := id.NewID32()
	tipos := []docDomain.Type{docDomain.TypeDNI, docDomain.TypeCUIT, docDomain.TypeComprobanteDomicilio}
	for _, tipo := range tipos {
		if err := repo.Create(ctx, makeDocument(id.NewID32(), solicitudID, tipo)); err != nil {
			t.Fatalf("Create %s: %v", tipo, err)
		}
	}

	list, err := repo.ListByApplicationID(ctx, solicitudID)
	if err != nil {
		t.Fatalf("ListByApplicationID: %v", err)
	}
	if len(list) != len(tipos) {
		t.Fatalf("len = %d, want %d", len(list), len(tipos))
	}
	for i, tipo := range tipos {
		if list[i].Tipo != tipo {
			t.Errorf("list[%d].Tipo = %s, want %s", i, list[i].Tipo, tipo)
		}
	}
}
