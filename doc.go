// Package conmodel generates LP inequalities, CNF/DNF clauses, or
// affine GF(2) subspaces that separate an INCLUDE point set from an
// EXCLUDE point set over {0,1}^n, for use as MILP/SAT model
// constraints (e.g. cryptographic S-box modeling).
//
// The pipeline is: sparseset (A) names EXCLUDE subsets; extraprec (B)
// closes them under a monotonicity-aware reduction; oracle (C)
// classifies a candidate subset as separable or not; learner (D)
// caches the resulting frontier; strategy (E) drives the learner to
// completeness; pool (F) owns the whole pipeline for one INCLUDE/
// EXCLUDE pair; subsetcover (G) picks a minimum constraint subset;
// shiftlearn (H) decomposes a non-monotone pool into per-origin
// monotone subpools when a single pool can't be learned directly;
// constraint (I) implements the three constraint kinds. command and
// cmd/conmodel wire these into a runnable tool.
//
// See SPEC_FULL.md for the full component breakdown and DESIGN.md for
// how each package is grounded.
package conmodel
