// Package params generates and persists the public parameter set a
// verifier instance runs with: (p, q, g, h) for the discrete-logarithm
// flavor, or (G, H) over Ristretto255 for the elliptic-curve flavor.
package params

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	ristretto "github.com/gtank/ristretto255"

	"zkauth/group"
)

// Params is the public, stable parameter record for a verifier
// instance. It is safe to persist to disk and reload, and safe to hand
// back verbatim from GetConfiguration.
type Params struct {
	Flavor group.Flavor

	// DL fields, set iff Flavor == group.DiscreteLogarithm.
	P, Q, G, H *big.Int

	// EC fields, set iff Flavor == group.EllipticCurve.
	ECG, ECH *ristretto.Element
}

// ECDecimal returns the decimal-string encodings of ECG and ECH, the
// wire representation GetConfiguration serves for the elliptic-curve
// flavor (spec.md section 6). Valid only when Flavor ==
// group.EllipticCurve.
func (p *Params) ECDecimal() (g, h string) {
	return elementDecimal(p.ECG), elementDecimal(p.ECH)
}

// Generators returns the group.Math bound to g/G and h/H respectively,
// ready to be handed to proof.Prover/proof.Verifier.
func (p *Params) Generators() (gMath, hMath group.Math, err error) {
	switch p.Flavor {
	case group.DiscreteLogarithm:
		return group.NewDL(p.P, p.Q, p.G), group.NewDL(p.P, p.Q, p.H), nil
	case group.EllipticCurve:
		return group.NewEC(p.ECG), group.NewEC(p.ECH), nil
	default:
		return nil, nil, fmt.Errorf("params: unknown flavor %v", p.Flavor)
	}
}

// wireDL/wireEC mirror the GetConfiguration oneof described in spec.md
// section 6; all group values are decimal strings on the wire.
type wireDL struct {
	P string `json:"p"`
	Q string `json:"q"`
	G string `json:"g"`
	H string `json:"h"`
}

type wireEC struct {
	G string `json:"g"`
	H string `json:"h"`
}

type wireFile struct {
	DiscreteLogarithm *wireDL `json:"discrete_logarithm,omitempty"`
	EllipticCurve     *wireEC `json:"elliptic_curve,omitempty"`
}

// MarshalJSON encodes Params as the tagged-union configuration-file
// shape from spec.md section 6, following the teacher's convention of
// hand-writing the encode step rather than relying on struct tags on
// the math values directly (ciphertextData.MarshalJSON in the teacher
// corpus does the same for its group values).
func (p *Params) MarshalJSON() ([]byte, error) {
	var f wireFile
	switch p.Flavor {
	case group.DiscreteLogarithm:
		f.DiscreteLogarithm = &wireDL{
			P: p.P.String(), Q: p.Q.String(), G: p.G.String(), H: p.H.String(),
		}
	case group.EllipticCurve:
		f.EllipticCurve = &wireEC{
			G: elementDecimal(p.ECG), H: elementDecimal(p.ECH),
		}
	default:
		return nil, fmt.Errorf("params: unknown flavor %v", p.Flavor)
	}
	return json.MarshalIndent(&f, "", "  ")
}

// UnmarshalJSON decodes the tagged-union configuration-file shape back
// into Params.
func (p *Params) UnmarshalJSON(data []byte) error {
	var f wireFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	switch {
	case f.DiscreteLogarithm != nil:
		d := f.DiscreteLogarithm
		pp, ok1 := new(big.Int).SetString(d.P, 10)
		qq, ok2 := new(big.Int).SetString(d.Q, 10)
		gg, ok3 := new(big.Int).SetString(d.G, 10)
		hh, ok4 := new(big.Int).SetString(d.H, 10)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return fmt.Errorf("params: malformed discrete_logarithm configuration")
		}
		p.Flavor = group.DiscreteLogarithm
		p.P, p.Q, p.G, p.H = pp, qq, gg, hh
		return nil
	case f.EllipticCurve != nil:
		g, err := decimalElement(f.EllipticCurve.G)
		if err != nil {
			return fmt.Errorf("params: malformed elliptic_curve G: %w", err)
		}
		h, err := decimalElement(f.EllipticCurve.H)
		if err != nil {
			return fmt.Errorf("params: malformed elliptic_curve H: %w", err)
		}
		p.Flavor = group.EllipticCurve
		p.ECG, p.ECH = g, h
		return nil
	default:
		return fmt.Errorf("params: configuration names neither discrete_logarithm nor elliptic_curve")
	}
}

// Load reads and parses a configuration file written by Save.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("params: load: %w", err)
	}
	var p Params
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("params: load: %w", err)
	}
	return &p, nil
}

// Save writes the configuration file. If the file already exists, the
// caller must pass overwrite=true, mirroring spec.md section 6's
// "generating it to an existing path requires explicit overwrite
// consent."
func Save(path string, p *Params, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("params: %s already exists; pass overwrite to replace it", path)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("params: save: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func elementDecimal(e *ristretto.Element) string {
	return new(big.Int).SetBytes(e.Encode(nil)).String()
}

func decimalElement(s string) (*ristretto.Element, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a valid decimal integer")
	}
	b := n.Bytes()
	padded := make([]byte, 32)
	copy(padded[32-len(b):], b)
	el := new(ristretto.Element)
	if err := el.Decode(padded); err != nil {
		return nil, err
	}
	return el, nil
}
