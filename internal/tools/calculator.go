package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
)

// CalculatorArgs are the calculator arguments.
type CalculatorArgs struct {
	FirstNum  float64 `json:"first_num" jsonschema_description:"First operand."`
	SecondNum float64 `json:"second_num" jsonschema_description:"Second operand."`
	Operation string  `json:"operation" jsonschema_description:"One of: add, sub, mul, div."`
}

// CalculatorResult is the calculator payload.
type CalculatorResult struct {
	FirstNum  float64 `json:"first_num"`
	SecondNum float64 `json:"second_num"`
	Operation string  `json:"operation"`
	Result    float64 `json:"result"`
	Summary   string  `json:"summary"`
}

var CalculatorDefinition = core.ToolDefinition{
	Type: "function",
	Function: core.FunctionSpec{
		Name:        "calculator",
		Description: "Perform a basic arithmetic operation on two numbers. Supported operations: add, sub, mul, div.",
		Parameters:  GenerateSchema[CalculatorArgs](),
	},
}

// CalculatorTool runs entirely locally: no cache, no network.
func CalculatorTool(argsJSON string) (string, error) {
	var args CalculatorArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return foldErr(core.NewInvalidArgument("calculator", err)), nil
	}

	var result float64
	switch args.Operation {
	case "add":
		result = args.FirstNum + args.SecondNum
	case "sub":
		result = args.FirstNum - args.SecondNum
	case "mul":
		result = args.FirstNum * args.SecondNum
	case "div":
		if args.SecondNum == 0 {
			return foldErr(core.NewInvalidArgument("calculator", errors.New("division by zero is not allowed"))), nil
		}
		result = args.FirstNum / args.SecondNum
	default:
		return foldErr(core.NewInvalidArgument("calculator", fmt.Errorf("unsupported operation %q", args.Operation))), nil
	}

	out := CalculatorResult{
		FirstNum:  args.FirstNum,
		SecondNum: args.SecondNum,
		Operation: args.Operation,
		Result:    result,
		Summary:   fmt.Sprintf("%g %s %g = %g", args.FirstNum, args.Operation, args.SecondNum, result),
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
