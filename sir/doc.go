// Package sir holds the epidemic state types shared by the solver and its
// collaborators, and a reference two-group (young/old) SIR model with
// targeted lockdowns.
//
// State layout (absolute population shares):
//
//	        young    old
//	S  [ S_young  S_old ]
//	I  [ I_young  I_old ]
//
// The solver consumes the model only through two pure function contracts:
//
//	TransitionFunc func(u Control, x State) State
//	CostFunc       func(u Control, x State) float64
//
// Model.Transition and Model.Cost satisfy them. Any other pair of pure
// functions with the same contract (clamped next states, non-negative cost)
// can be plugged into the solver instead.
//
// Reference dynamics (Euler step of length Δt):
//
//	M_g  = β · S_g · (1 − θ·u_g) · Σ_h ρ_gh · (1 − θ·u_h) · I_h
//	S'_g = S_g − Δt·M_g
//	I'_g = I_g + Δt·(M_g − γ·I_g)
//
// Reference cost per unit of time:
//
//	c(u, x) = Σ_g w_g·u_g·P_g  +  χ · Σ_g δ_g·(1 + κ·ΣI)·γ·I_g
//
// i.e. output lost to the lockdown plus the value of lives lost, with a
// congestion factor κ raising fatality when many people are infected.
package sir
