package mzidentml

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testMzid = `<?xml version="1.0" encoding="UTF-8"?>
<MzIdentML xmlns="http://psidev.info/psi/pi/mzIdentML/1.1" id="test">
  <SequenceCollection>
    <Peptide id="PEP_1"><PeptideSequence>PEPTIDE</PeptideSequence></Peptide>
    <Peptide id="PEP_2">
      <PeptideSequence>MK</PeptideSequence>
      <Modification location="1" monoisotopicMassDelta="15.994915"/>
    </Peptide>
    <Peptide id="PEP_3"><PeptideSequence>XB</PeptideSequence></Peptide>
  </SequenceCollection>
  <DataCollection><AnalysisData><SpectrumIdentificationList id="SIL_1">
    <SpectrumIdentificationResult id="SIR_1" spectrumID="index=1">
      <SpectrumIdentificationItem id="SII_1" chargeState="2" peptide_ref="PEP_1"/>
      <SpectrumIdentificationItem id="SII_2" chargeState="1" peptide_ref="PEP_2"/>
      <cvParam accession="MS:1000894" name="retention time" value="999" unitAccession="UO:0000010"/>
      <cvParam accession="MS:1000016" name="scan start time" value="12.5" unitAccession="UO:0000031"/>
    </SpectrumIdentificationResult>
    <SpectrumIdentificationResult id="SIR_2" spectrumID="index=2">
      <SpectrumIdentificationItem id="SII_3" chargeState="2" peptide_ref="PEP_3"/>
    </SpectrumIdentificationResult>
  </SpectrumIdentificationList></AnalysisData></DataCollection>
</MzIdentML>`

func TestRead(t *testing.T) {
	m, err := Read(strings.NewReader(testMzid))
	if err != nil {
		t.Fatalf("Read: error return %v", err)
	}
	want := []Identification{
		{PepID: "PEP_1", PepSeq: "PEPTIDE", Charge: 2, SpecID: "index=1", RetentionTime: 750},
		{PepID: "PEP_2", PepSeq: "MK", Charge: 1, ModMass: 15.994915, SpecID: "index=1", RetentionTime: 750},
		{PepID: "PEP_3", PepSeq: "XB", Charge: 2, SpecID: "index=2", RetentionTime: -1},
	}
	if diff := cmp.Diff(want, m.Idents); diff != "" {
		t.Errorf("Identifications mismatch (-want +got):\n%s", diff)
	}
}

func TestMz(t *testing.T) {
	// PEPTIDE, monoisotopic mass 799.3599640
	ident := Identification{PepSeq: "PEPTIDE", Charge: 2}
	mz, err := ident.Mz()
	if err != nil {
		t.Fatalf("Mz: error return %v", err)
	}
	if math.Abs(mz-400.6872584) > 1e-6 {
		t.Errorf("Mz is %f, expected 400.6872584", mz)
	}
	if _, err := (Identification{PepSeq: "PEPTIDE"}).Mz(); !errors.Is(err, ErrNoCharge) {
		t.Errorf("Expected ErrNoCharge, got %v", err)
	}
	if _, err := (Identification{PepSeq: "PEPXIDE", Charge: 1}).Mz(); !errors.Is(err, ErrUnknownResidue) {
		t.Errorf("Expected ErrUnknownResidue, got %v", err)
	}
}

func TestToTable(t *testing.T) {
	m, err := Read(strings.NewReader(testMzid))
	if err != nil {
		t.Fatalf("Read: error return %v", err)
	}
	tab, skipped := m.ToTable("test.mzid")
	if skipped != 1 {
		t.Errorf("Skipped %d identifications, expected 1", skipped)
	}
	if tab.NumRows() != 2 {
		t.Fatalf("NumRows is %d, expected 2", tab.NumRows())
	}
	rt, _ := tab.Column(ColRT)
	if diff := cmp.Diff([]string{"750", "750"}, rt); diff != "" {
		t.Errorf("rt column mismatch (-want +got):\n%s", diff)
	}
	pep, _ := tab.Column(ColPeptide)
	if diff := cmp.Diff([]string{"PEPTIDE", "MK"}, pep); diff != "" {
		t.Errorf("peptide column mismatch (-want +got):\n%s", diff)
	}
}

func TestReadUnknownPeptide(t *testing.T) {
	in := strings.Replace(testMzid, `peptide_ref="PEP_3"`, `peptide_ref="PEP_9"`, 1)
	if _, err := Read(strings.NewReader(in)); !errors.Is(err, ErrUnknownPeptide) {
		t.Errorf("Expected ErrUnknownPeptide, got %v", err)
	}
}
