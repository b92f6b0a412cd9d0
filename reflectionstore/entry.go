package reflectionstore

import (
	"errors"
	"fmt"

	"github.com/holmberd/go-reflectionstore/encoder"
	"github.com/holmberd/go-reflectionstore/keyfactory"
	"github.com/holmberd/go-reflectionstore/persist"
	"github.com/holmberd/go-reflectionstore/reflection"
	"github.com/segmentio/ksuid"
	"google.golang.org/protobuf/types/known/structpb"
)

// Envelope field names.
const (
	fieldExperimentId = "experiment_id"
	fieldId           = "id"
	fieldState        = "state"
)

var (
	ErrNoReflection    = errors.New("reflectionstore: entry has no reflection")
	ErrMalformedEntry  = errors.New("reflectionstore: malformed stored entry")
	ErrEmptyExperiment = errors.New("reflectionstore: experiment ID must not be empty")
)

var (
	stateAdapter  = persist.NewAdapter[*structpb.ListValue](persist.ListValueConvention{})
	envelopeCodec = encoder.ProtoCodec{}
)

// Entry is a reflection stored under an experiment.
type Entry struct {
	ExperimentId string
	Id           string
	Reflection   *reflection.Reflection
}

// NewEntry returns an entry for r. A KSUID is assigned when id is empty.
func NewEntry(experimentId string, id string, r *reflection.Reflection) (*Entry, error) {
	if id == "" {
		id = ksuid.New().String()
	}
	e := &Entry{ExperimentId: experimentId, Id: id, Reflection: r}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// GetKey returns the datastore key "experiment:<experimentId>:reflection:<id>",
// or "" if the entry IDs are invalid.
func (e Entry) GetKey() string {
	key, err := entryKey(e.ExperimentId, e.Id)
	if err != nil {
		return ""
	}
	return key
}

func (e *Entry) validate() error {
	if e.Reflection == nil {
		return ErrNoReflection
	}
	_, err := entryKey(e.ExperimentId, e.Id)
	return err
}

// MarshalBinary encodes the entry as a protobuf Struct carrying the IDs and
// the reflection state.
func (e *Entry) MarshalBinary() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	envelope := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldExperimentId: structpb.NewStringValue(e.ExperimentId),
			fieldId:           structpb.NewStringValue(e.Id),
			fieldState:        structpb.NewListValue(stateAdapter.GetState(e.Reflection)),
		},
	}
	return envelopeCodec.Marshal(envelope)
}

// UnmarshalBinary decodes an entry written by MarshalBinary.
// e is not modified on error.
func (e *Entry) UnmarshalBinary(data []byte) error {
	envelope := &structpb.Struct{}
	if err := envelopeCodec.Unmarshal(data, envelope); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEntry, err)
	}
	fields := envelope.GetFields()
	experimentId, ok := fields[fieldExperimentId].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrMalformedEntry, fieldExperimentId)
	}
	id, ok := fields[fieldId].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrMalformedEntry, fieldId)
	}
	state := fields[fieldState].GetListValue()
	if state == nil {
		return fmt.Errorf("%w: missing %s", ErrMalformedEntry, fieldState)
	}
	r := &reflection.Reflection{}
	if err := stateAdapter.SetState(r, state); err != nil {
		return fmt.Errorf("reflectionstore: entry '%s': %w", id.StringValue, err)
	}
	*e = Entry{ExperimentId: experimentId.StringValue, Id: id.StringValue, Reflection: r}
	return nil
}

func entryKey(experimentId string, id string) (string, error) {
	parentKey, err := experimentKey(experimentId)
	if err != nil {
		return "", err
	}
	key, err := keyfactory.NewEntityKey(keyfactory.EntityKindReflection, id, "", parentKey)
	if err != nil {
		return "", fmt.Errorf("reflectionstore: %w", err)
	}
	return key, nil
}
