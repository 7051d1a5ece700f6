package cfr

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

// LoadStrategyTable reads a table previously written with MarshalTo.
// The reloaded table resumes at the persisted iteration count and can
// be handed to ResumeTrainer to continue training.
func LoadStrategyTable(r io.Reader) (*StrategyTable, error) {
	dec := gob.NewDecoder(r)
	var params DiscountParams
	if err := dec.Decode(&params); err != nil {
		return nil, errors.Wrap(err, "decoding discount params")
	}

	var iter int
	if err := dec.Decode(&iter); err != nil {
		return nil, errors.Wrap(err, "decoding iteration count")
	}

	var nStrategies int
	if err := dec.Decode(&nStrategies); err != nil {
		return nil, errors.Wrap(err, "decoding number of infosets")
	}

	strategies := make(map[string]*strategy, nStrategies)
	for i := 0; i < nStrategies; i++ {
		var key string
		if err := dec.Decode(&key); err != nil {
			return nil, errors.Wrapf(err, "decoding infoset key %d", i)
		}

		var s strategy
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrapf(err, "decoding strategy for %q", key)
		}

		strategies[key] = &s
	}

	return &StrategyTable{
		params:      params,
		iter:        iter,
		strategies:  strategies,
		needsUpdate: make(map[*strategy]struct{}),
	}, nil
}

// MarshalTo serializes the table to the given Writer in gob format.
func (st *StrategyTable) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(st.params); err != nil {
		return err
	}

	if err := enc.Encode(st.iter); err != nil {
		return err
	}

	if err := enc.Encode(len(st.strategies)); err != nil {
		return err
	}

	for key, s := range st.strategies {
		if err := enc.Encode(key); err != nil {
			return err
		}

		if err := enc.Encode(s); err != nil {
			return err
		}
	}

	return nil
}

func (s *strategy) GobDecode(buf []byte) error {
	r := bytes.NewReader(buf)
	dec := gob.NewDecoder(r)

	var nActions int
	if err := dec.Decode(&nActions); err != nil {
		return err
	}

	regretSum := make([]float32, 0, nActions)
	if err := dec.Decode(&regretSum); err != nil {
		return err
	}

	strategySum := make([]float32, 0, nActions)
	if err := dec.Decode(&strategySum); err != nil {
		return err
	}

	if len(regretSum) != nActions || len(strategySum) != nActions {
		return errors.Errorf("corrupt strategy: %d actions with %d regrets and %d strategy sums",
			nActions, len(regretSum), len(strategySum))
	}

	s.regretSum = regretSum
	s.strategySum = strategySum
	s.currentStrategy = make([]float32, nActions)
	s.regretMatching()
	return nil
}

func (s *strategy) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(s.numActions()); err != nil {
		return nil, err
	}

	if err := enc.Encode(s.regretSum); err != nil {
		return nil, err
	}

	if err := enc.Encode(s.strategySum); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
