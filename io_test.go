package cfr

import (
	"bytes"
	"encoding/gob"
	"testing"
)

func TestStrategy_GobRoundTrip(t *testing.T) {
	s := newStrategy(2)
	s.AddRegret([]float32{1, 3})

	buf, err := s.GobEncode()
	if err != nil {
		t.Fatal(err)
	}

	var decoded strategy
	if err := decoded.GobDecode(buf); err != nil {
		t.Fatal(err)
	}

	if decoded.regretSum[0] != 1 || decoded.regretSum[1] != 3 {
		t.Errorf("got regrets %v, expected [1 3]", decoded.regretSum)
	}
}

func TestStrategy_GobDecodeRejectsArityMismatch(t *testing.T) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, v := range []interface{}{3, []float32{1, 2}, []float32{1, 2, 3}} {
		if err := enc.Encode(v); err != nil {
			t.Fatal(err)
		}
	}

	var s strategy
	if err := s.GobDecode(buf.Bytes()); err == nil {
		t.Error("expected an error decoding accumulators of mismatched length")
	}
}
