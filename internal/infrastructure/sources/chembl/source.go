package chembl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// Attribute keys on records derived from ChEMBL molecules.
const (
	AttrMoleculeType  = "molecule_type"
	AttrMaxPhase      = "max_phase"
	AttrFirstApproval = "first_approval"
	AttrATCCodes      = "atc_codes"
	AttrWithdrawn     = "withdrawn"
	AttrBlackBox      = "black_box_warning"
	AttrMechanisms    = "mechanisms"
	AttrIndications   = "indications"
)

// MoleculeSource builds a dictionary extract by resolving a list of mention
// terms against ChEMBL and keeping molecules of one type.  The drug
// dictionary keeps antibody drug conjugates; payload and linker dictionaries
// keep small molecules.
type MoleculeSource struct {
	client       *Client
	field        ontology.FieldType
	moleculeType string
	terms        []string
	withDetails  bool
	logger       logging.Logger
}

// NewADCSource builds the drug-dictionary source.  Mechanism-of-action and
// indication rows are fetched per kept molecule and surfaced as attributes.
func NewADCSource(client *Client, terms []string, logger logging.Logger) *MoleculeSource {
	return &MoleculeSource{
		client:       client,
		field:        ontology.FieldDrug,
		moleculeType: MoleculeTypeADC,
		terms:        terms,
		withDetails:  true,
		logger:       named(logger, "chembl.adc"),
	}
}

// NewSmallMoleculeSource builds a payload or linker dictionary source.
func NewSmallMoleculeSource(client *Client, field ontology.FieldType, terms []string, logger logging.Logger) *MoleculeSource {
	return &MoleculeSource{
		client:       client,
		field:        field,
		moleculeType: MoleculeTypeSmallMolecule,
		terms:        terms,
		logger:       named(logger, "chembl."+field.String()),
	}
}

func (s *MoleculeSource) Name() string                  { return "chembl" }
func (s *MoleculeSource) FieldType() ontology.FieldType { return s.field }

// Fetch resolves every term against ChEMBL.  Terms without a usable hit are
// skipped silently; they fall out as unknowns during resolution.  An
// unreachable endpoint aborts the extract.
func (s *MoleculeSource) Fetch(ctx context.Context) (*ontology.SourceExtract, error) {
	extract := &ontology.SourceExtract{Name: s.Name()}
	seen := make(map[string]struct{})

	for _, term := range s.terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		rec, err := s.lookup(ctx, term)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if rec == nil {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		extract.Records = append(extract.Records, *rec)
	}

	s.logger.Info("chembl extract built",
		logging.String("field", s.field.String()),
		logging.Int("terms", len(s.terms)),
		logging.Int("records", len(extract.Records)),
	)
	return extract, nil
}

func (s *MoleculeSource) lookup(ctx context.Context, term string) (*ontology.SourceRecord, error) {
	hit, err := s.client.SearchMolecule(ctx, term)
	if err != nil {
		return nil, err
	}

	mol, err := s.client.GetMolecule(ctx, hit.MoleculeChEMBLID)
	if err != nil {
		return nil, err
	}
	if mol.MoleculeType != s.moleculeType {
		return nil, nil
	}
	if mol.PrefName == "" && mol.MaxPhase == nil {
		return nil, nil
	}

	label := mol.PrefName
	if label == "" {
		label = term
	}

	rec := &ontology.SourceRecord{
		ID:      mol.MoleculeChEMBLID,
		Label:   label,
		Aliases: append(mol.SynonymNames(), term),
		Attributes: map[string]string{
			AttrMoleculeType: mol.MoleculeType,
		},
	}
	if mol.MaxPhase != nil {
		rec.Attributes[AttrMaxPhase] = strconv.FormatFloat(*mol.MaxPhase, 'f', -1, 64)
	}
	if mol.FirstApproval != nil {
		rec.Attributes[AttrFirstApproval] = strconv.Itoa(*mol.FirstApproval)
	}
	if codes := mol.ATCCodes(); len(codes) > 0 {
		rec.Attributes[AttrATCCodes] = strings.Join(codes, "|")
	}
	if mol.WithdrawnFlag {
		rec.Attributes[AttrWithdrawn] = "true"
	}
	if mol.BlackBoxWarning > 0 {
		rec.Attributes[AttrBlackBox] = "true"
	}

	if s.withDetails {
		if err := s.attachDetails(ctx, rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// attachDetails folds mechanism and indication rows into flat attributes,
// one pipe-separated value per row.
func (s *MoleculeSource) attachDetails(ctx context.Context, rec *ontology.SourceRecord) error {
	moas, err := s.client.Mechanisms(ctx, rec.ID)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	if len(moas) > 0 {
		parts := make([]string, 0, len(moas))
		for _, m := range moas {
			parts = append(parts, fmt.Sprintf("%s:%s", m.ActionType, m.TargetChEMBLID))
		}
		rec.Attributes[AttrMechanisms] = strings.Join(parts, "|")
	}

	inds, err := s.client.Indications(ctx, rec.ID)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	if len(inds) > 0 {
		parts := make([]string, 0, len(inds))
		for _, ind := range inds {
			id := ind.EFOID
			if id == "" {
				id = ind.MeSHID
			}
			if id == "" {
				continue
			}
			parts = append(parts, id)
		}
		if len(parts) > 0 {
			rec.Attributes[AttrIndications] = strings.Join(parts, "|")
		}
	}
	return nil
}

func named(logger logging.Logger, name string) logging.Logger {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return logger.Named(name)
}

//Personal.AI order the ending
