package types

import (
	"time"

	"github.com/mejor-tasa/tasas/banks"
)

// ProductType is the mortgage product family
type ProductType string

const (
	ProductHipotecario ProductType = "hipotecario"
	ProductLeasing     ProductType = "leasing"
)

func (p ProductType) String() string {
	return string(p)
}

// CurrencyIndex is the denomination of the loan
type CurrencyIndex string

const (
	// CurrencyCOP denotes fixed-rate loans in Colombian pesos
	CurrencyCOP CurrencyIndex = "COP"

	// CurrencyUVR denotes loans quoted as a spread over the
	// inflation-indexed Unidad de Valor Real
	CurrencyUVR CurrencyIndex = "UVR"
)

func (c CurrencyIndex) String() string {
	return string(c)
}

// Segment is the regulatory housing-value segment
type Segment string

const (
	SegmentVIS     Segment = "VIS"
	SegmentNoVIS   Segment = "NO_VIS"
	SegmentUnknown Segment = "UNKNOWN"
)

func (s Segment) String() string {
	return string(s)
}

// Channel is the distribution channel the offer is bound to
type Channel string

const (
	ChannelDigital     Channel = "DIGITAL"
	ChannelBranch      Channel = "BRANCH"
	ChannelUnspecified Channel = "UNSPECIFIED"
)

func (c Channel) String() string {
	return string(c)
}

// SourceType is the kind of disclosure document
type SourceType string

const (
	SourceHTML SourceType = "HTML"
	SourcePDF  SourceType = "PDF"
)

// ExtractionMethod is how the figures were pulled out of the document
type ExtractionMethod string

const (
	ExtractionCSSSelector ExtractionMethod = "CSS_SELECTOR"
	ExtractionRegex       ExtractionMethod = "REGEX"
)

// RateKind discriminates the Rate union
type RateKind string

const (
	RateCOPFixed  RateKind = "COP_FIXED"
	RateUVRSpread RateKind = "UVR_SPREAD"
)

// Rate is a tagged union of the two Colombian rate-quoting conventions.
// COP_FIXED offers populate the ea / mv percent fields, UVR_SPREAD offers
// populate the spread fields. Percentages are human-readable units
// (12.5 means 12.5%), never fractions
type Rate struct {
	Kind RateKind `json:"kind"`

	EAPercentFrom float64 `json:"ea_percent_from,omitempty"`
	EAPercentTo   float64 `json:"ea_percent_to,omitempty"`
	MVPercentFrom float64 `json:"mv_percent_from,omitempty"`
	MVPercentTo   float64 `json:"mv_percent_to,omitempty"`

	SpreadEAFrom float64 `json:"spread_ea_from,omitempty"`
	SpreadEATo   float64 `json:"spread_ea_to,omitempty"`
	SpreadMVFrom float64 `json:"spread_mv_from,omitempty"`
	SpreadMVTo   float64 `json:"spread_mv_to,omitempty"`
}

// From returns the comparable lower bound of the rate, regardless of kind
func (r Rate) From() float64 {
	if r.Kind == RateUVRSpread {
		return r.SpreadEAFrom
	}

	return r.EAPercentFrom
}

// DiscountType is how a payroll discount is expressed
type DiscountType string

const (
	DiscountBPSOff     DiscountType = "BPS_OFF"
	DiscountPercentOff DiscountType = "PERCENT_OFF"
)

// PayrollDiscount is a conditional rate reduction for payroll clients
type PayrollDiscount struct {
	Type      DiscountType `json:"type"`
	Value     float64      `json:"value"`
	AppliesTo string       `json:"applies_to"` // always "RATE"
	Note      string       `json:"note,omitempty"`
}

// Conditions groups the non-structural terms attached to an offer
type Conditions struct {
	PayrollDiscount *PayrollDiscount `json:"payroll_discount,omitempty"`
	Notes           []string         `json:"notes,omitempty"`
}

// ExtractionInfo records how the figures were located, for auditability
type ExtractionInfo struct {
	Method  ExtractionMethod `json:"method"`
	Locator string           `json:"locator"`
	Excerpt string           `json:"excerpt,omitempty"`
}

// Source is the provenance record of an offer
type Source struct {
	URL             string         `json:"url"`
	SourceType      SourceType     `json:"source_type"`
	DocumentLabel   string         `json:"document_label,omitempty"`
	ValidFrom       string         `json:"valid_from,omitempty"` // YYYY-MM-DD
	RetrievedAt     time.Time      `json:"retrieved_at"`
	TextFingerprint string         `json:"extracted_text_fingerprint,omitempty"`
	Extraction      ExtractionInfo `json:"extraction"`
}

// Offer is a single published mortgage-rate offer, immutable once created.
// A rate change on the next pipeline run produces a new offer with a new id
// rather than mutating this one
type Offer struct {
	ID       string   `json:"id"`
	BankID   banks.ID `json:"bank_id"`
	BankName string   `json:"bank_name"`

	ProductType   ProductType   `json:"product_type"`
	CurrencyIndex CurrencyIndex `json:"currency_index"`
	Segment       Segment       `json:"segment"`
	Channel       Channel       `json:"channel"`

	Rate Rate `json:"rate"`

	TermMonthsMin int     `json:"term_months_min,omitempty"`
	TermMonthsMax int     `json:"term_months_max,omitempty"`
	AmountMinCOP  float64 `json:"amount_min_cop,omitempty"`
	AmountMaxCOP  float64 `json:"amount_max_cop,omitempty"`

	Conditions Conditions `json:"conditions"`
	Source     Source     `json:"source"`
}

// MetricKind tags the comparable number used for ranking
type MetricKind string

const (
	MetricEAPercent   MetricKind = "EA_PERCENT"
	MetricUVRSpreadEA MetricKind = "UVR_SPREAD_EA"
)

// RankingMetric is the single comparable number ranking sorts on
type RankingMetric struct {
	Kind  MetricKind `json:"kind"`
	Value float64    `json:"value"`
}

// ScenarioKey names a ranked usage scenario
type ScenarioKey string

const (
	ScenarioUVRVISHipotecario   ScenarioKey = "best_uvr_vis_hipotecario"
	ScenarioUVRNoVISHipotecario ScenarioKey = "best_uvr_no_vis_hipotecario"
	ScenarioCOPVISHipotecario   ScenarioKey = "best_cop_vis_hipotecario"
	ScenarioCOPNoVISHipotecario ScenarioKey = "best_cop_no_vis_hipotecario"
	ScenarioUVRVISPayroll       ScenarioKey = "best_uvr_vis_payroll"
	ScenarioUVRNoVISPayroll     ScenarioKey = "best_uvr_no_vis_payroll"
	ScenarioCOPVISPayroll       ScenarioKey = "best_cop_vis_payroll"
	ScenarioCOPNoVISPayroll     ScenarioKey = "best_cop_no_vis_payroll"
	ScenarioDigitalHipotecario  ScenarioKey = "best_digital_hipotecario"
)

// RankedEntry is one position in a scenario ranking, 1-indexed
type RankedEntry struct {
	Position int           `json:"position"`
	OfferID  string        `json:"offer_id"`
	Metric   RankingMetric `json:"metric"`
}

// ScenarioRanking is the ordered list of the best offers for one scenario,
// capped at three entries. Position 1 is the single best offer
type ScenarioRanking []RankedEntry

// Rankings is the full derived ranking set for one pipeline run.
// Scenarios with no matching offers are absent from the map
type Rankings struct {
	GeneratedAt time.Time                       `json:"generated_at"`
	Scenarios   map[ScenarioKey]ScenarioRanking `json:"scenarios"`
}

// OffersDataset wraps the aggregated offers of one pipeline run
type OffersDataset struct {
	GeneratedAt time.Time `json:"generated_at"`
	Offers      []Offer   `json:"offers"`
}

// BankParseResult is the unit of output of a single parser invocation.
// RawTextHash fingerprints the fetched document and is populated even when
// extraction yields no offers, so change detection keeps working
type BankParseResult struct {
	BankID      banks.ID `json:"bank_id"`
	Offers      []Offer  `json:"offers"`
	Warnings    []string `json:"warnings"`
	RawTextHash string   `json:"raw_text_hash"`
}
