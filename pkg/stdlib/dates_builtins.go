package stdlib

import (
	"time"

	"github.com/sandrolain/jex/pkg/decimal"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/value"
)

func registerDates(r *Registry) {
	r.Register(Entry{Name: "now", MinArgs: 0, MaxArgs: 0, Fn: fnNow})
	r.Register(Entry{Name: "parseDate", MinArgs: 1, MaxArgs: 2, Fn: fnParseDate})
	r.Register(Entry{Name: "formatDate", MinArgs: 2, MaxArgs: 2, Fn: fnFormatDate})
	r.Register(Entry{Name: "dateAdd", MinArgs: 3, MaxArgs: 3, Fn: fnDateAdd})
	r.Register(Entry{Name: "dateDiff", MinArgs: 3, MaxArgs: 3, Fn: fnDateDiff})
}

func fnNow(_ CallContext, _ []Value) (Value, error) {
	return value.DateTime(time.Now().UTC()), nil
}

// dateLayout maps the spec's short format names to Go reference layouts.
// "o" is the round-trippable RFC3339Nano layout used by the spec's
// roundtrip testable property (§8.9).
func dateLayout(fmt string) string {
	switch fmt {
	case "", "o":
		return time.RFC3339Nano
	case "date":
		return "2006-01-02"
	case "datetime":
		return "2006-01-02T15:04:05Z07:00"
	default:
		return fmt
	}
}

func fnParseDate(_ CallContext, args []Value) (Value, error) {
	s := args[0].ToString()
	layout := time.RFC3339Nano
	if len(args) == 2 {
		layout = dateLayout(args[1].ToString())
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return value.Null(), nil
	}
	return value.DateTime(t), nil
}

func fnFormatDate(_ CallContext, args []Value) (Value, error) {
	if args[0].Kind() != value.KindDateTime {
		return Value{}, jexerrors.NewRuntimeError("formatDate: expected a DateTime value").WithFunction("formatDate")
	}
	layout := dateLayout(args[1].ToString())
	return value.Str(args[0].AsTime().Format(layout)), nil
}

func fnDateAdd(_ CallContext, args []Value) (Value, error) {
	if args[0].Kind() != value.KindDateTime {
		return Value{}, jexerrors.NewRuntimeError("dateAdd: expected a DateTime value").WithFunction("dateAdd")
	}
	t := args[0].AsTime()
	unit := args[1].ToString()
	amount := args[2].ToNumber().Int64()
	switch unit {
	case "days":
		t = t.AddDate(0, 0, int(amount))
	case "hours":
		t = t.Add(time.Duration(amount) * time.Hour)
	case "minutes":
		t = t.Add(time.Duration(amount) * time.Minute)
	case "seconds":
		t = t.Add(time.Duration(amount) * time.Second)
	case "months":
		t = t.AddDate(0, int(amount), 0)
	case "years":
		t = t.AddDate(int(amount), 0, 0)
	default:
		return Value{}, jexerrors.NewRuntimeError("dateAdd: unknown unit %q", unit).WithFunction("dateAdd")
	}
	return value.DateTime(t), nil
}

func fnDateDiff(_ CallContext, args []Value) (Value, error) {
	if args[0].Kind() != value.KindDateTime || args[1].Kind() != value.KindDateTime {
		return Value{}, jexerrors.NewRuntimeError("dateDiff: expected DateTime values").WithFunction("dateDiff")
	}
	d := args[1].AsTime().Sub(args[0].AsTime())
	unit := args[2].ToString()
	var n float64
	switch unit {
	case "days":
		n = d.Hours() / 24
	case "hours":
		n = d.Hours()
	case "minutes":
		n = d.Minutes()
	case "seconds":
		n = d.Seconds()
	default:
		return Value{}, jexerrors.NewRuntimeError("dateDiff: unknown unit %q", unit).WithFunction("dateDiff")
	}
	return value.Number(decimal.FromFloat64(n)), nil
}
