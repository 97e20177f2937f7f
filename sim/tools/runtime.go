// Package tools implements the tool runtime, the sole external interface of
// the simulator. Agents interact only through Execute(name, args); every
// call returns a human-readable message plus a terminated flag, and the
// boundary never panics or returns a Go error. Argument payloads are
// validated against per-tool JSON Schemas compiled at registry
// construction.
package tools

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vending-sim/vending-sim/sim"
	"github.com/vending-sim/vending-sim/sim/memory"
)

// Tool categories map to clock cost per call. The wait category is special:
// it advances to the next day boundary instead of a fixed duration.
const (
	CategoryQuery  = "query"
	CategoryAction = "action"
	CategoryComms  = "comms"
	CategoryWait   = "wait"
)

// Spec is the externally visible description of one tool.
type Spec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ArgSchema   json.RawMessage `json:"arg_schema"`
}

type tool struct {
	spec    Spec
	schema  *jsonschema.Schema
	handler func(args map[string]any) string
}

// Runtime dispatches tool calls against one episode. It owns the episode's
// sub-agent and memory aids; the engine owns everything else.
type Runtime struct {
	eng   *sim.Engine
	sub   *sim.SubAgent
	kv    *memory.KVStore
	pad   *memory.Scratchpad
	tools map[string]*tool
	names []string
}

// NewRuntime builds the tool registry for an engine. Schema compilation
// failures are programming errors and panic at construction, never at
// call time.
func NewRuntime(eng *sim.Engine) *Runtime {
	rt := &Runtime{
		eng:   eng,
		sub:   sim.NewSubAgent(eng),
		kv:    memory.NewKVStore(256),
		pad:   memory.NewScratchpad(100),
		tools: make(map[string]*tool),
	}
	rt.registerAll()
	return rt
}

func (rt *Runtime) register(name, description, category, schemaSrc string, handler func(args map[string]any) string) {
	compiled := jsonschema.MustCompileString(name+".json", schemaSrc)
	rt.tools[name] = &tool{
		spec: Spec{
			Name:        name,
			Description: description,
			Category:    category,
			ArgSchema:   json.RawMessage(schemaSrc),
		},
		schema:  compiled,
		handler: handler,
	}
	rt.names = append(rt.names, name)
	sort.Strings(rt.names)
}

// Specs returns all tool specs sorted by name.
func (rt *Runtime) Specs() []Spec {
	out := make([]Spec, 0, len(rt.names))
	for _, name := range rt.names {
		out = append(out, rt.tools[name].spec)
	}
	return out
}

// Engine exposes the underlying engine for observation snapshots.
func (rt *Runtime) Engine() *sim.Engine { return rt.eng }

// Execute runs one tool call. After the episode terminates every call,
// known or not, reports the ending. Unknown tools and schema violations
// return a descriptive message without advancing the clock; valid calls of
// known tools advance the clock by their category cost even when the
// operation itself reports an error, because the agent spent the time
// attempting it.
func (rt *Runtime) Execute(name string, args map[string]any) (message string, terminated bool) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("tool %s panicked: %v", name, r)
			message = fmt.Sprintf("Internal error executing %s.", name)
			terminated = rt.eng.Terminated()
		}
	}()

	if rt.eng.Terminated() {
		return rt.endedMessage(), true
	}
	t, ok := rt.tools[name]
	if !ok {
		return fmt.Sprintf("Unknown tool %q. Available tools: %v.", name, rt.names), false
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := t.schema.Validate(any(args)); err != nil {
		return fmt.Sprintf("Invalid arguments for %s: %v", name, err), false
	}

	rt.eng.NoteToolCall(name)
	if rt.eng.Terminated() {
		return rt.endedMessage(), true
	}

	if minutes := rt.costMinutes(t.spec.Category); minutes > 0 {
		if err := rt.eng.Advance(minutes); err != nil {
			return fmt.Sprintf("Internal error advancing time: %v", err), rt.eng.Terminated()
		}
	}
	if rt.eng.Terminated() {
		return rt.endedMessage(), true
	}
	return t.handler(args), false
}

func (rt *Runtime) costMinutes(category string) int {
	times := rt.eng.Config().ToolTimes
	switch category {
	case CategoryQuery:
		return times.QueryMinutes
	case CategoryAction:
		return times.ActionMinutes
	case CategoryComms:
		return times.CommsMinutes
	case CategoryWait:
		return rt.eng.State().Clock.MinutesUntilNextDay()
	}
	return 0
}

func (rt *Runtime) endedMessage() string {
	st := rt.eng.State()
	return fmt.Sprintf("Episode ended: %s (day %d, net worth $%s).",
		st.TerminationReason, st.Clock.Day(), st.NetWorth().StringFixed(2))
}

const noArgsSchema = `{"type":"object","additionalProperties":false}`

func (rt *Runtime) registerAll() {
	eng := rt.eng

	rt.register("get_money_balance",
		"Report cash at hand, uncollected machine cash, and outstanding fees.",
		CategoryQuery, noArgsSchema,
		func(map[string]any) string { return eng.MoneyBalance() })

	rt.register("get_machine_status",
		"Show every slot: product, stock, capacity, price, size class.",
		CategoryQuery, noArgsSchema,
		func(map[string]any) string { return eng.MachineStatus() })

	rt.register("search_products",
		"List purchasable products across all suppliers, optionally filtered.",
		CategoryQuery,
		`{"type":"object","additionalProperties":false,
		  "properties":{"query":{"type":"string"}}}`,
		func(args map[string]any) string { return eng.SearchProducts(argString(args, "query")) })

	rt.register("check_email",
		"Read the most recent inbox messages and mark them read.",
		CategoryComms,
		`{"type":"object","additionalProperties":false,
		  "properties":{"limit":{"type":"integer","minimum":1,"maximum":100}}}`,
		func(args map[string]any) string { return eng.CheckEmail(argInt(args, "limit")) })

	rt.register("send_email",
		"Send an email. Mail to a supplier address is interpreted as an order or catalog inquiry.",
		CategoryComms,
		`{"type":"object","additionalProperties":false,
		  "required":["to_addr","subject","body"],
		  "properties":{
		    "to_addr":{"type":"string","minLength":1},
		    "subject":{"type":"string"},
		    "body":{"type":"string"}}}`,
		func(args map[string]any) string {
			return eng.SendEmail(argString(args, "to_addr"), argString(args, "subject"), argString(args, "body"))
		})

	rt.register("restock",
		"Move units of a product from one slot to another slot of the same size class.",
		CategoryAction,
		`{"type":"object","additionalProperties":false,
		  "required":["from_slot","to_slot","quantity"],
		  "properties":{
		    "from_slot":{"type":"integer","minimum":0},
		    "to_slot":{"type":"integer","minimum":0},
		    "quantity":{"type":"integer","minimum":1}}}`,
		func(args map[string]any) string {
			return eng.Restock(argInt(args, "from_slot"), argInt(args, "to_slot"), argInt(args, "quantity"))
		})

	rt.register("set_price",
		"Set the selling price of one slot.",
		CategoryAction,
		`{"type":"object","additionalProperties":false,
		  "required":["slot_id","price"],
		  "properties":{
		    "slot_id":{"type":"integer","minimum":0},
		    "price":{"type":"number","minimum":0}}}`,
		func(args map[string]any) string {
			return eng.SetPrice(argInt(args, "slot_id"), decimal.NewFromFloat(argFloat(args, "price")))
		})

	rt.register("collect_cash",
		"Empty the machine cash box into cash at hand; settles outstanding fees if covered.",
		CategoryAction, noArgsSchema,
		func(map[string]any) string { return eng.CollectCash() })

	rt.register("wait_for_next_day",
		"Skip to the next morning and receive the morning report.",
		CategoryWait, noArgsSchema,
		func(map[string]any) string { return eng.MorningReportString() })

	rt.register("sub_agent_specs",
		"Describe what the physical-operations sub-agent can do.",
		CategoryQuery, noArgsSchema,
		func(map[string]any) string { return rt.sub.Specs() })

	rt.register("run_sub_agent",
		"Give the sub-agent a plain-language instruction to execute.",
		CategoryComms,
		`{"type":"object","additionalProperties":false,
		  "required":["instruction"],
		  "properties":{"instruction":{"type":"string","minLength":1}}}`,
		func(args map[string]any) string { return rt.sub.Run(argString(args, "instruction")) })

	rt.register("chat_with_sub_agent",
		"Ask the sub-agent about its recent actions or the machine contents.",
		CategoryAction,
		`{"type":"object","additionalProperties":false,
		  "required":["question"],
		  "properties":{"question":{"type":"string","minLength":1}}}`,
		func(args map[string]any) string { return rt.sub.Chat(argString(args, "question")) })

	rt.register("kv_put",
		"Store a note under a key in episode memory.",
		CategoryQuery,
		`{"type":"object","additionalProperties":false,
		  "required":["key","value"],
		  "properties":{
		    "key":{"type":"string","minLength":1},
		    "value":{"type":"string"}}}`,
		func(args map[string]any) string { return rt.kv.Put(argString(args, "key"), argString(args, "value")) })

	rt.register("kv_get",
		"Retrieve a note from episode memory.",
		CategoryQuery,
		`{"type":"object","additionalProperties":false,
		  "required":["key"],
		  "properties":{"key":{"type":"string","minLength":1}}}`,
		func(args map[string]any) string { return rt.kv.Get(argString(args, "key")) })

	rt.register("kv_delete",
		"Delete a note from episode memory.",
		CategoryQuery,
		`{"type":"object","additionalProperties":false,
		  "required":["key"],
		  "properties":{"key":{"type":"string","minLength":1}}}`,
		func(args map[string]any) string { return rt.kv.Delete(argString(args, "key")) })

	rt.register("kv_list",
		"List all keys in episode memory.",
		CategoryQuery, noArgsSchema,
		func(map[string]any) string { return rt.kv.List() })

	rt.register("scratchpad_write",
		"Append a note to the scratchpad.",
		CategoryQuery,
		`{"type":"object","additionalProperties":false,
		  "required":["text"],
		  "properties":{"text":{"type":"string","minLength":1}}}`,
		func(args map[string]any) string { return rt.pad.Write(argString(args, "text")) })

	rt.register("scratchpad_read",
		"Read the last notes from the scratchpad.",
		CategoryQuery,
		`{"type":"object","additionalProperties":false,
		  "properties":{"last_k":{"type":"integer","minimum":1}}}`,
		func(args map[string]any) string { return rt.pad.Read(argInt(args, "last_k")) })
}

// Argument extraction after schema validation. JSON numbers decode as
// float64; schemas have already enforced type and range.

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func argInt(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

func argFloat(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}
