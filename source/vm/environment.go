package vm

import "sort"

// There's one environment for the whole of a run, with no scopes. Rebinding a name for the
// duration of a function call or a loop iteration is done by binding it and then restoring
// what bind returned.
type environment map[string]float64

type binding struct {
	name  string
	value float64
	bound bool
}

func newEnvironment() environment {
	return environment{}
}

func (env environment) get(name string) (float64, bool) {
	v, ok := env[name]
	return v, ok
}

func (env environment) set(name string, v float64) {
	env[name] = v
}

func (env environment) bind(name string, v float64) binding {
	old, ok := env[name]
	env[name] = v
	return binding{name: name, value: old, bound: ok}
}

func (env environment) restore(b binding) {
	if b.bound {
		env[b.name] = b.value
	} else {
		delete(env, b.name)
	}
}

func (env environment) names() []string {
	result := make([]string, 0, len(env))
	for k := range env {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}
