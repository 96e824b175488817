package fattura

import (
	"testing"

	"github.com/beevik/etree"
)

// fixtureAttachment describes one <Allegati> container of a fixture invoice.
type fixtureAttachment struct {
	Nome        string
	Algoritmo   string
	Formato     string
	Descrizione string
	Payload     string // raw text of the <Attachment> tag
}

// buildInvoice serializes a well-formed FatturaPA-like document with the
// given attachments. Malformed fixtures are written as string literals in the
// tests instead.
func buildInvoice(t *testing.T, atts ...fixtureAttachment) string {
	t.Helper()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("p:FatturaElettronica")
	root.CreateAttr("versione", "FPR12")
	body := root.CreateElement("FatturaElettronicaBody")

	for _, att := range atts {
		el := body.CreateElement("Allegati")
		if len(att.Nome) > 0 {
			el.CreateElement("NomeAttachment").SetText(att.Nome)
		}
		if len(att.Algoritmo) > 0 {
			el.CreateElement("AlgoritmoCompressione").SetText(att.Algoritmo)
		}
		if len(att.Formato) > 0 {
			el.CreateElement("FormatoAttachment").SetText(att.Formato)
		}
		if len(att.Descrizione) > 0 {
			el.CreateElement("DescrizioneAttachment").SetText(att.Descrizione)
		}
		if len(att.Payload) > 0 {
			el.CreateElement("Attachment").SetText(att.Payload)
		}
	}

	doc.Indent(2)
	text, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("serialize fixture invoice: %v", err)
	}
	return text
}
