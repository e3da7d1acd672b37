package mzidentml

import (
	"encoding/xml"
	"errors"
)

// Types for parsing mzIdentML

// MzIdentML holds the identifications of an mzIdentML file, in the order
// in which the spectrum identification items appear
type MzIdentML struct {
	Idents []Identification
}

// Identification is one peptide-spectrum match
type Identification struct {
	PepID         string
	PepSeq        string
	Charge        int
	ModMass       float64 // sum of modification mass deltas
	SpecID        string
	RetentionTime float64 // seconds, -1 if absent
}

type mzIdentMLContent struct {
	XMLName                      xml.Name                       `xml:"MzIdentML"`
	Peptide                      []peptide                      `xml:"SequenceCollection>Peptide"`
	SpectrumIdentificationResult []spectrumIdentificationResult `xml:"DataCollection>AnalysisData>SpectrumIdentificationList>SpectrumIdentificationResult"`
}

type peptide struct {
	ID              string `xml:"id,attr"`
	PeptideSequence string
	Modification    []modification
}

type modification struct {
	MonoisotopicMassDelta float64 `xml:"monoisotopicMassDelta,attr"`
}

type spectrumIdentificationResult struct {
	SpectrumID                 string `xml:"spectrumID,attr"`
	SpectrumIdentificationItem []spectrumIdentificationItem
	CvPar                      []cvParam `xml:"cvParam"`
}

type spectrumIdentificationItem struct {
	ChargeState int    `xml:"chargeState,attr"`
	PeptideRef  string `xml:"peptide_ref,attr"`
}

type cvParam struct {
	Accession     string `xml:"accession,attr"`
	Value         string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
}

var (
	ErrUnknownPeptide = errors.New("mzIdentML: reference to unknown peptide")
	ErrUnknownResidue = errors.New("mzIdentML: invalid amino acid")
	ErrNoCharge       = errors.New("mzIdentML: charge state must be positive")
)
