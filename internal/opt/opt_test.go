package opt

import (
	"math"
	"testing"
)

func TestSGDStep(t *testing.T) {
	sgd := NewSGD(0.1)

	params := []float64{1.0, 2.0, 3.0}
	sgd.Step(0, params, []float64{0.1, 0.2, 0.3})

	expected := []float64{0.99, 1.98, 2.97}
	for i := range params {
		if math.Abs(params[i]-expected[i]) > 1e-10 {
			t.Errorf("params[%d] = %v, want %v", i, params[i], expected[i])
		}
	}
}

// The first Adam step moves every parameter by lr against the gradient sign.
func TestAdamFirstStep(t *testing.T) {
	adam := NewAdam(0.001)
	params := []float64{1, -1, 0.5}
	adam.Step(0, params, []float64{3, -0.2, 1e-3})

	expected := []float64{0.999, -0.999, 0.499}
	for i := range params {
		if math.Abs(params[i]-expected[i]) > 1e-5 {
			t.Errorf("params[%d] = %v, want %v", i, params[i], expected[i])
		}
	}
}

func TestAdamKeepsStatePerKey(t *testing.T) {
	a := NewAdam(0.01)
	b := NewAdam(0.01)

	p0 := []float64{1}
	p1 := []float64{1}
	q := []float64{1}
	for i := 0; i < 5; i++ {
		a.Step(0, p0, []float64{0.5})
		a.Step(1, p1, []float64{-2})
		b.Step(0, q, []float64{0.5})
	}
	if p0[0] != q[0] {
		t.Errorf("key 1 updates leaked into key 0: %v vs %v", p0[0], q[0])
	}
	if p1[0] <= 1 {
		t.Errorf("negative gradient should increase the parameter, got %v", p1[0])
	}
}

// Minimises (x-3)^2 + 10(y+1)^2.
func TestAdamConverges(t *testing.T) {
	adam := NewAdam(0.05)
	params := []float64{0, 0}
	for i := 0; i < 2000; i++ {
		grad := []float64{2 * (params[0] - 3), 20 * (params[1] + 1)}
		adam.Step(0, params, grad)
	}
	if math.Abs(params[0]-3) > 1e-2 || math.Abs(params[1]+1) > 1e-2 {
		t.Errorf("Adam ended at %v, want (3, -1)", params)
	}
}

func TestByName(t *testing.T) {
	o, err := ByName("adam", 0.001)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := o.(*Adam); !ok || o.LearningRate() != 0.001 {
		t.Errorf("ByName(adam) = %#v", o)
	}
	o, err = ByName("SGD", 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := o.(*SGD); !ok {
		t.Errorf("ByName(SGD) = %T", o)
	}
	if _, err := ByName("rmsprop", 0.1); err == nil {
		t.Error("expected error for unknown optimizer")
	}
}

func TestSchedulers(t *testing.T) {
	sgd := NewSGD(1)
	step := NewStepLR(sgd, 2, 0.5)
	for i := 0; i < 4; i++ {
		step.Step(0)
	}
	if step.LearningRate() != 0.25 {
		t.Errorf("StepLR lr = %v, want 0.25", step.LearningRate())
	}

	sgd.SetLearningRate(1)
	exp := NewExponentialLR(sgd, 0.9)
	exp.Step(0)
	exp.Step(0)
	if math.Abs(exp.LearningRate()-0.81) > 1e-12 {
		t.Errorf("ExponentialLR lr = %v, want 0.81", exp.LearningRate())
	}

	sgd.SetLearningRate(1)
	plateau := NewReduceLROnPlateau(sgd, 0.1, 2, 0, 0.05)
	for _, l := range []float64{1, 0.5, 0.6, 0.7} {
		plateau.Step(l)
	}
	if math.Abs(plateau.LearningRate()-0.1) > 1e-12 {
		t.Errorf("plateau lr = %v, want 0.1", plateau.LearningRate())
	}
	plateau.Step(0.8)
	plateau.Step(0.9)
	if plateau.LearningRate() != 0.05 {
		t.Errorf("plateau lr = %v, want the 0.05 floor", plateau.LearningRate())
	}

	if _, err := SchedulerByName("cosine", sgd, 0.5); err == nil {
		t.Error("expected error for unknown scheduler")
	}
	s, err := SchedulerByName("", sgd, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	s.Step(1)
	if s.LearningRate() != 0.05 {
		t.Errorf("constant scheduler changed lr to %v", s.LearningRate())
	}
}
