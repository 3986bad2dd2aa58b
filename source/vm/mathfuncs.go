package vm

import "math"

// The functions of one argument. The evaluator and the vm both get their arithmetic from
// here, so they can't disagree.
var unaryFunctions = map[opcode]func(float64) float64{
	fsin:   math.Sin,
	fcos:   math.Cos,
	ftan:   math.Tan,
	fcot:   func(x float64) float64 { return 1 / math.Tan(x) },
	fsec:   func(x float64) float64 { return 1 / math.Cos(x) },
	fcsc:   func(x float64) float64 { return 1 / math.Sin(x) },
	fsinh:  math.Sinh,
	fcosh:  math.Cosh,
	ftanh:  math.Tanh,
	fasinh: math.Asinh,
	facosh: math.Acosh,
	fatanh: math.Atanh,
	fexp:   math.Exp,
	flog:   math.Log,
	flog10: math.Log10,
	flog2:  math.Log2,
	fsqrt:  math.Sqrt,
	fabs:   math.Abs,
	fasin:  math.Asin,
	facos:  math.Acos,
	fatan:  math.Atan,
	facot:  func(x float64) float64 { return math.Atan(1 / x) },
	fasec:  func(x float64) float64 { return math.Acos(1 / x) },
	facsc:  func(x float64) float64 { return math.Asin(1 / x) },
	ffact:  factorial,
	ffloor: math.Floor,
}

var binaryFunctions = map[opcode]func(float64, float64) float64{
	addf: func(a, b float64) float64 { return a + b },
	subf: func(a, b float64) float64 { return a - b },
	mulf: func(a, b float64) float64 { return a * b },
	divf: func(a, b float64) float64 { return a / b },
	powf: math.Pow,
	logb: logBase,
}

// NaN for negative numbers, 1 for 0, and otherwise the product of 2 up to the floor of x.
// Anything past 170! overflows a float64, so we don't bother multiplying it out.
func factorial(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return math.NaN()
	}
	n := math.Floor(x)
	if n > 170 {
		return math.Inf(1)
	}
	acc := 1.0
	for ; n > 1; n-- {
		acc *= n
	}
	return acc
}

// The logarithm of x to the given base.
func logBase(base, x float64) float64 {
	return math.Log(x) / math.Log(base)
}
