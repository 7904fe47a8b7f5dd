// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package metrics

// MetricName describes the name and description of a single metric
type MetricName struct {
	Name        string
	Description string
}

var (
	// EvaluationsTotal Total number of program evaluations, by verdict
	EvaluationsTotal = MetricName{Name: "microavm_evaluations_total", Description: "Total number of program evaluations, by verdict"}
	// EvalStepsTotal Total number of instructions executed
	EvalStepsTotal = MetricName{Name: "microavm_eval_steps_total", Description: "Total number of instructions executed"}
	// EvalDurationSeconds Time spent in one evaluation
	EvalDurationSeconds = MetricName{Name: "microavm_eval_duration_seconds", Description: "Time spent in one evaluation"}
	// StoreErrorsTotal Total number of failed state store reads and writes
	StoreErrorsTotal = MetricName{Name: "microavm_store_errors_total", Description: "Total number of failed state store reads and writes"}
)
