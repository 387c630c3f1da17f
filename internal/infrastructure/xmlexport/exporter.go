// Package xmlexport serializa el log de auditoría a XML canónico (C14N)
// con un digest SHA-256 que permite verificar que la exportación no fue alterada.
package xmlexport

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
)

const (
	// Namespace del documento de exportación.
	Namespace = "urn:inventory-optimizer:audit:1"
	// DigestAlgorithm identificador del digest publicado junto al documento.
	DigestAlgorithm = "http://www.w3.org/2001/04/xmlenc#sha256"
)

// AuditExporter implementa audit.Exporter.
type AuditExporter struct{}

// NewAuditExporter construye el exportador.
func NewAuditExporter() *AuditExporter {
	return &AuditExporter{}
}

// Export construye el documento, lo canonicaliza y devuelve bytes canónicos
// junto al digest SHA-256 en base64 calculado sobre esos mismos bytes.
func (e *AuditExporter) Export(entries []*entity.AuditLog, start, end time.Time) ([]byte, string, error) {
	raw, err := build(entries, start, end).WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xmlexport: serializar: %w", err)
	}
	canonical, err := canonicalize(raw)
	if err != nil {
		return nil, "", fmt.Errorf("xmlexport: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return canonical, base64.StdEncoding.EncodeToString(sum[:]), nil
}

func build(entries []*entity.AuditLog, start, end time.Time) *etree.Document {
	doc := etree.NewDocument()
	root := doc.CreateElement("AuditExport")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("from", start.UTC().Format(time.RFC3339Nano))
	root.CreateAttr("to", end.UTC().Format(time.RFC3339Nano))
	root.CreateAttr("count", fmt.Sprint(len(entries)))

	for _, a := range entries {
		el := root.CreateElement("Entry")
		el.CreateAttr("id", a.ID)
		el.CreateAttr("action", a.Action)
		el.CreateAttr("entityType", a.EntityType)
		if a.EntityID != "" {
			el.CreateAttr("entityId", a.EntityID)
		}
		el.CreateElement("Timestamp").SetText(a.Timestamp.UTC().Format(time.RFC3339Nano))
		el.CreateElement("User").SetText(a.UserName)
		el.CreateElement("Description").SetText(a.Description)
		if a.Details != "" {
			el.CreateElement("Details").SetText(a.Details)
		}
	}
	return doc
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

// Verify recalcula el digest de un documento exportado.
func Verify(doc []byte, digest string) (bool, error) {
	canonical, err := canonicalize(doc)
	if err != nil {
		return false, fmt.Errorf("xmlexport: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]) == digest, nil
}
