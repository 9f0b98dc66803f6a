package sem

import (
	"sort"

	"dbpc/ast"
	"dbpc/cmds"
	"dbpc/ir"
	"dbpc/report"
	"dbpc/types"
)

// convertCommandCall converts a call to an engine command, performing overload
// resolution over the command index.
func (c *Converter) convertCommandCall(span *report.TextSpan, commandName string, astArgs []ast.Expr) *ir.FunctionCallExpression {
	args := make([]ir.Expression, len(astArgs))
	for i, astArg := range astArgs {
		args[i] = c.convertExpression(astArg)
	}

	candidates := c.cmdIndex.Lookup(commandName)
	if len(candidates) == 0 {
		// The parser only emits a command call for a name it found in the
		// index, so an empty candidate list is a compiler bug.
		report.ReportICE("command %s is missing from the index", commandName)
	}

	command := candidates[0]

	// If there are arguments, perform overload resolution.
	if len(args) > 0 {
		candidates = filterCandidates(candidates, args)
		if len(candidates) == 0 {
			c.error(span, "unable to find matching overload for command %s", commandName)
		}

		// Sort candidates in ascending order by how suitable they are: the
		// candidate at the end of the sorted list is the best match.  The
		// sort is stable, so equally scored candidates keep their insertion
		// order and the later-registered one wins.
		sort.SliceStable(candidates, func(i, j int) bool {
			return scoreCandidate(candidates[i], args) < scoreCandidate(candidates[j], args)
		})
		command = candidates[len(candidates)-1]
	}

	// The selected overload may not be a perfect match: insert casts so each
	// argument matches its parameter type exactly.
	for i := range args {
		args[i] = c.ensureType(args[i], typeFromCommandType(command.Args[i].Type))
	}

	return &ir.FunctionCallExpression{
		ExprBase: ir.NewExprBase(span),
		Command:  command,
		Args:     args,
		Return:   typeFromCommandType(command.ReturnType),
	}
}

// filterCandidates removes overloads which cannot possibly match the call:
// wrong arity, internal variadic/any markers, or an argument with no
// conversion.
func filterCandidates(candidates []*cmds.Command, args []ir.Expression) []*cmds.Command {
	var viable []*cmds.Command

candidateLoop:
	for _, candidate := range candidates {
		if len(candidate.Args) != len(args) {
			continue
		}

		for i, declArg := range candidate.Args {
			if declArg.Type == cmds.CodeX || declArg.Type == cmds.CodeA {
				continue candidateLoop
			}

			declType, _ := declArg.Type.DataType()
			if !isTypeConvertible(args[i].Type(), declType) {
				continue candidateLoop
			}
		}

		viable = append(viable, candidate)
	}

	return viable
}

// scoreCandidate scores an overload against the actual argument types.  Each
// argument contributes: +10 for an exact type match, +1 for a shared builtin
// archetype (both integral or both floating-point).  The best matching
// overload has the highest score.
func scoreCandidate(overload *cmds.Command, args []ir.Expression) int {
	score := 0
	for i, declArg := range overload.Args {
		declType, _ := declArg.Type.DataType()
		argType := args[i].Type()

		if types.Equals(declType, argType) {
			score += 10
		} else if types.IsIntegral(declType) && types.IsIntegral(argType) {
			score++
		} else if types.IsFloatingPoint(declType) && types.IsFloatingPoint(argType) {
			score++
		}
	}

	return score
}
