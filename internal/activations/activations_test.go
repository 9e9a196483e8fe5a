package activations

import (
	"math"
	"testing"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestReLU(t *testing.T) {
	relu := ReLU{}

	tests := []struct {
		input, want, deriv float64
	}{
		{-1.0, 0.0, 0.0},
		{0.0, 0.0, 0.0},
		{1.0, 1.0, 1.0},
		{2.5, 2.5, 1.0},
	}
	for _, tt := range tests {
		if got := relu.Activate(tt.input); got != tt.want {
			t.Errorf("ReLU(%v) = %v, want %v", tt.input, got, tt.want)
		}
		if got := relu.Derivative(tt.input); got != tt.deriv {
			t.Errorf("ReLU'(%v) = %v, want %v", tt.input, got, tt.deriv)
		}
	}
}

// Reference values from torch.sigmoid / torch.tanh.
func TestSigmoidTanhReference(t *testing.T) {
	tests := []struct {
		x, sigmoid, tanh float64
	}{
		{-2, 0.11920292202211755, -0.9640275800758169},
		{0, 0.5, 0},
		{0.5, 0.6224593312018546, 0.46211715726000974},
		{3, 0.9525741268224334, 0.9950547536867305},
	}
	for _, tt := range tests {
		if got := (Sigmoid{}).Activate(tt.x); !near(got, tt.sigmoid, 1e-12) {
			t.Errorf("Sigmoid(%v) = %v, want %v", tt.x, got, tt.sigmoid)
		}
		if got := (Tanh{}).Activate(tt.x); !near(got, tt.tanh, 1e-12) {
			t.Errorf("Tanh(%v) = %v, want %v", tt.x, got, tt.tanh)
		}
	}
}

func TestLeakyReLU(t *testing.T) {
	l := NewLeakyReLU(0.1)
	if got := l.Activate(-2); !near(got, -0.2, 1e-12) {
		t.Errorf("LeakyReLU(-2) = %v", got)
	}
	if got := l.Derivative(-2); got != 0.1 {
		t.Errorf("LeakyReLU'(-2) = %v", got)
	}
	if got := l.Derivative(3); got != 1 {
		t.Errorf("LeakyReLU'(3) = %v", got)
	}
}

func TestSoftmaxVector(t *testing.T) {
	s := Softmax{}
	x := []float64{1, 2, 3, 1000}
	y := s.ActivateVector(x)

	var sum float64
	for _, v := range y {
		if math.IsNaN(v) {
			t.Fatalf("softmax produced NaN: %v", y)
		}
		sum += v
	}
	if !near(sum, 1, 1e-12) {
		t.Errorf("softmax sums to %v", sum)
	}
	if x[0] != 1 {
		t.Error("ActivateVector modified its input")
	}

	// J^T g against finite differences on a small vector
	x = []float64{0.2, -0.4, 0.9}
	g := []float64{1, -2, 0.5}
	y = s.ActivateVector(x)
	back := s.BackwardVector(y, g)
	const h = 1e-6
	for i := range x {
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[i] += h
		xm[i] -= h
		yp, ym := s.ActivateVector(xp), s.ActivateVector(xm)
		var fd float64
		for j := range g {
			fd += g[j] * (yp[j] - ym[j]) / (2 * h)
		}
		if !near(fd, back[i], 1e-6) {
			t.Errorf("softmax backward[%d] = %v, finite difference %v", i, back[i], fd)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "linear", "relu", "sigmoid", "tanh", "leaky_relu", "softmax"} {
		a, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if name != "" && Name(a) != name {
			t.Errorf("Name(ByName(%q)) = %q", name, Name(a))
		}
	}
	if _, err := ByName("gelu"); err == nil {
		t.Error("expected error for unknown activation")
	}
}

func TestClipExpectationIdempotent(t *testing.T) {
	for _, x := range []float64{-5, -1, -0.99999, -0.3, 0, 0.7, 0.999999, 1, 5} {
		c := ClipExpectation(x)
		if ClipExpectation(c) != c {
			t.Errorf("clip not idempotent at %v", x)
		}
		if c < -1+ClipMargin || c > 1-ClipMargin {
			t.Errorf("clip(%v) = %v outside range", x, c)
		}
	}
	if c := ClipExpectation(math.NaN()); math.IsNaN(c) {
		t.Error("clip(NaN) is NaN")
	}
}

func TestExpectationAngleRange(t *testing.T) {
	angle := ExpectationAngle{}
	for _, x := range []float64{-5, -1, -0.5, 0, 0.5, 1, 5} {
		y := angle.Activate(x)
		if math.IsNaN(y) || math.IsInf(y, 0) || y < 0 || y > 1 {
			t.Errorf("angle(%v) = %v", x, y)
		}
		d := angle.Derivative(x)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			t.Errorf("angle'(%v) = %v", x, d)
		}
	}
	if got := angle.Activate(0); !near(got, 0.5, 1e-12) {
		t.Errorf("angle(0) = %v, want 0.5", got)
	}
	if got := angle.Activate(1); !near(got, 0, 1e-2) {
		t.Errorf("angle(1) = %v, want ~0", got)
	}
	if got := angle.Derivative(5); got != 0 {
		t.Errorf("angle'(5) = %v, want 0", got)
	}
	if got := angle.Derivative(0); !near(got, -1/math.Pi, 1e-12) {
		t.Errorf("angle'(0) = %v", got)
	}
}

func TestPostProcess(t *testing.T) {
	if got := PostProcess(0, nil); !near(got, 0.5, 1e-12) {
		t.Errorf("PostProcess(0, nil) = %v", got)
	}
	if got := PostProcess(-1, ReLU{}); got < 0 || got > 1 {
		t.Errorf("PostProcess(-1, relu) = %v", got)
	}

	const h = 1e-6
	for _, act := range []Activation{nil, ReLU{}, Sigmoid{}, Tanh{}} {
		for _, x := range []float64{-0.7, -0.1, 0.3, 0.8} {
			fd := (PostProcess(x+h, act) - PostProcess(x-h, act)) / (2 * h)
			if got := PostProcessDerivative(x, act); !near(got, fd, 1e-5) {
				t.Errorf("%s: derivative at %v = %v, finite difference %v", Name(act), x, got, fd)
			}
		}
	}
}
