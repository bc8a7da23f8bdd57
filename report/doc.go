// Package report exports simulation trajectories and solver results as CSV
// and renders them as PNG line plots.
package report
