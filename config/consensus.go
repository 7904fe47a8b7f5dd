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

package config

import (
	"github.com/algorand/go-microavm/protocol"
)

// ConsensusParams specifies settings that might vary based on the
// particular version of the evaluation rules.
type ConsensusParams struct {
	// LogicSigVersion is the highest program version the evaluator accepts.
	LogicSigVersion uint64

	// MaxStackDepth bounds the operand stack.
	MaxStackDepth int

	// MaxEvalSteps is the number of instructions a single evaluation may
	// execute before it faults.
	MaxEvalSteps int

	// MaxStringSize is the longest byte value an opcode may produce.
	MaxStringSize int

	// EvalMaxArgs is the number of arguments a transaction may carry.
	EvalMaxArgs int

	// MaxScratchSlots is the size of the scratch space.
	MaxScratchSlots int
}

// ConsensusProtocols defines a set of supported protocol versions and their
// corresponding parameters.
type ConsensusProtocols map[protocol.ConsensusVersion]ConsensusParams

// Consensus tracks the protocol-level settings for different versions of the
// evaluation rules.
var Consensus ConsensusProtocols

// DeepCopy creates a deep copy of a consensus protocols map.
func (cp ConsensusProtocols) DeepCopy() ConsensusProtocols {
	staticConsensus := make(ConsensusProtocols)
	for consensusVersion, consensusParams := range cp {
		staticConsensus[consensusVersion] = consensusParams
	}
	return staticConsensus
}

// CurrentParams returns the parameters of protocol.ConsensusCurrentVersion.
func CurrentParams() ConsensusParams {
	return Consensus[protocol.ConsensusCurrentVersion]
}

func initConsensusProtocols() {
	v1 := ConsensusParams{
		LogicSigVersion: 1,
		MaxStackDepth:   1000,
		MaxEvalSteps:    20000,
		MaxStringSize:   4096,
		EvalMaxArgs:     255,
		MaxScratchSlots: 256,
	}
	Consensus[protocol.ConsensusV1] = v1

	// vFuture is the same as v1 until something is added on top of it.
	vFuture := v1
	Consensus[protocol.ConsensusFuture] = vFuture
}

func init() {
	Consensus = make(ConsensusProtocols)
	initConsensusProtocols()
}
