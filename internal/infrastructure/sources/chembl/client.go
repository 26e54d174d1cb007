// Package chembl talks to the ChEMBL REST API and derives dictionary extracts
// for the drug, payload and linker field types.
package chembl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// DefaultBaseURL is the public ChEMBL data endpoint.
const DefaultBaseURL = "https://www.ebi.ac.uk/chembl/api/data"

// Molecule type strings as ChEMBL reports them.
const (
	MoleculeTypeADC           = "Antibody drug conjugate"
	MoleculeTypeSmallMolecule = "Small molecule"
)

// ClientConfig holds the configuration for the ChEMBL client.
type ClientConfig struct {
	BaseURL string             `mapstructure:"base_url"`
	HTTP    sources.HTTPConfig `mapstructure:"http"`
}

// Client queries ChEMBL molecule, mechanism and drug-indication endpoints.
type Client struct {
	baseURL string
	http    *sources.HTTPClient
	logger  logging.Logger
}

// NewClient creates a ChEMBL client.
func NewClient(cfg ClientConfig, logger logging.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    sources.NewHTTPClient("chembl", cfg.HTTP, logger),
		logger:  logger.Named("chembl"),
	}
}

// Molecule is the subset of a ChEMBL molecule record the dictionaries use.
type Molecule struct {
	MoleculeChEMBLID string    `json:"molecule_chembl_id"`
	PrefName         string    `json:"pref_name"`
	MoleculeType     string    `json:"molecule_type"`
	MaxPhase         *float64  `json:"max_phase"`
	FirstApproval    *int      `json:"first_approval"`
	WithdrawnFlag    bool      `json:"withdrawn_flag"`
	BlackBoxWarning  int       `json:"black_box_warning"`
	IndicationClass  string    `json:"indication_class"`
	USANStem         string    `json:"usan_stem"`
	Synonyms         []synonym `json:"molecule_synonyms"`
	ATC              []atc     `json:"atc_classifications"`
}

type synonym struct {
	Name string `json:"molecule_synonym"`
}

type atc struct {
	Level5 string `json:"level5"`
}

// SynonymNames returns the deduplicated synonym strings.
func (m *Molecule) SynonymNames() []string {
	seen := make(map[string]struct{}, len(m.Synonyms))
	out := make([]string, 0, len(m.Synonyms))
	for _, s := range m.Synonyms {
		if s.Name == "" {
			continue
		}
		if _, dup := seen[s.Name]; dup {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s.Name)
	}
	return out
}

// ATCCodes returns the level-5 ATC classification codes.
func (m *Molecule) ATCCodes() []string {
	out := make([]string, 0, len(m.ATC))
	for _, a := range m.ATC {
		if a.Level5 != "" {
			out = append(out, a.Level5)
		}
	}
	return out
}

// Mechanism is one mechanism-of-action row for a molecule.
type Mechanism struct {
	MechanismOfAction string `json:"mechanism_of_action"`
	ActionType        string `json:"action_type"`
	TargetChEMBLID    string `json:"target_chembl_id"`
}

// Indication is one drug-indication row for a molecule.
type Indication struct {
	EFOID       string `json:"efo_id"`
	EFOTerm     string `json:"efo_term"`
	MeSHID      string `json:"mesh_id"`
	MeSHHeading string `json:"mesh_heading"`
}

type searchResponse struct {
	Molecules []Molecule `json:"molecules"`
}

type mechanismResponse struct {
	Mechanisms []Mechanism `json:"mechanisms"`
}

type indicationResponse struct {
	DrugIndications []Indication `json:"drug_indications"`
}

// SearchMolecule searches ChEMBL by name and returns the best hit, or a
// NotFound error when nothing matches.
func (c *Client) SearchMolecule(ctx context.Context, name string) (*Molecule, error) {
	var resp searchResponse
	q := url.Values{"q": {name}, "format": {"json"}}
	if err := c.http.GetJSON(ctx, c.baseURL+"/molecule/search", q, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Molecules) == 0 {
		return nil, errors.NotFound(fmt.Sprintf("no chembl molecule for %q", name))
	}
	return &resp.Molecules[0], nil
}

// GetMolecule fetches the full record for a known ChEMBL ID.
func (c *Client) GetMolecule(ctx context.Context, chemblID string) (*Molecule, error) {
	var mol Molecule
	q := url.Values{"format": {"json"}}
	if err := c.http.GetJSON(ctx, c.baseURL+"/molecule/"+url.PathEscape(chemblID), q, nil, &mol); err != nil {
		return nil, err
	}
	return &mol, nil
}

// Mechanisms returns the mechanism-of-action rows for a molecule.
func (c *Client) Mechanisms(ctx context.Context, chemblID string) ([]Mechanism, error) {
	var resp mechanismResponse
	q := url.Values{"molecule_chembl_id": {chemblID}, "format": {"json"}}
	if err := c.http.GetJSON(ctx, c.baseURL+"/mechanism", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Mechanisms, nil
}

// Indications returns the drug-indication rows for a molecule.
func (c *Client) Indications(ctx context.Context, chemblID string) ([]Indication, error) {
	var resp indicationResponse
	q := url.Values{"molecule_chembl_id": {chemblID}, "format": {"json"}}
	if err := c.http.GetJSON(ctx, c.baseURL+"/drug_indication", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.DrugIndications, nil
}

//Personal.AI order the ending
