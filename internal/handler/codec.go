package handler

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	ogenjson "github.com/ogen-go/ogen/json"
	"github.com/ogen-go/ogen/validate"

	"github.com/xenking/coffee-orders/internal/domain/order"
)

const maxBodySize = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// readBody reads the whole request body, bounded by maxBodySize.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if len(body) == 0 {
		return nil, errEmptyBody
	}
	return body, nil
}

var errMalformedJSON = errors.New("malformed JSON")

// fieldDecoder collects fields whose JSON type does not match the schema.
// Such fields are skipped and reported as validation failures, so only
// syntactically broken bodies are rejected outright.
type fieldDecoder struct {
	fields []validate.FieldError
}

func (f *fieldDecoder) fail(name string, err error) {
	f.fields = append(f.fields, validate.FieldError{Name: name, Error: err})
}

func (f *fieldDecoder) mismatch(d *jx.Decoder, name, want string) error {
	f.fail(name, errors.Errorf("expected %s, got %s", want, d.Next()))
	return d.Skip()
}

// object checks that the body is a JSON object. The whole body is reported
// as the "body" field otherwise.
func (f *fieldDecoder) object(d *jx.Decoder) (bool, error) {
	if d.Next() == jx.Object {
		return true, nil
	}
	return false, f.mismatch(d, "body", "object")
}

// optStr decodes a string that may be null. ok is false for null and for a
// value of another type.
func (f *fieldDecoder) optStr(d *jx.Decoder, name string) (v string, ok bool, err error) {
	switch d.Next() {
	case jx.Null:
		return "", false, d.Null()
	case jx.String:
		v, err = d.Str()
		return v, err == nil, err
	default:
		return "", false, f.mismatch(d, name, "string")
	}
}

// optInt decodes an integer that may be null. Numbers with a fractional part
// or outside the int32 range are reported as type mismatches.
func (f *fieldDecoder) optInt(d *jx.Decoder, name string) (v int, ok bool, err error) {
	switch d.Next() {
	case jx.Null:
		return 0, false, d.Null()
	case jx.Number:
		n, err := d.Float64()
		if err != nil {
			return 0, false, err
		}
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			f.fail(name, errors.Errorf("expected integer, got %v", n))
			return 0, false, nil
		}
		return int(n), true, nil
	default:
		return 0, false, f.mismatch(d, name, "integer")
	}
}

// syntax rejects bodies that are not a single valid JSON value.
func syntax(data []byte) error {
	if !jx.Valid(data) {
		return errMalformedJSON
	}
	return nil
}

// decodeOrderRequest decodes an order request. Type mismatches are returned
// as field errors; err is set only for malformed JSON.
func decodeOrderRequest(data []byte) (order.Request, []validate.FieldError, error) {
	if err := syntax(data); err != nil {
		return order.Request{}, nil, err
	}

	var (
		req order.Request
		f   fieldDecoder
	)
	d := jx.DecodeBytes(data)
	if ok, err := f.object(d); !ok {
		return req, f.fields, err
	}
	err := d.ObjBytes(func(d *jx.Decoder, k []byte) error {
		switch name := string(k); name {
		case "size":
			v, _, err := f.optStr(d, name)
			req.Size = order.Size(v)
			return err
		case "coffee_type":
			v, _, err := f.optStr(d, name)
			req.CoffeeType = order.CoffeeType(v)
			return err
		case "flavors":
			switch d.Next() {
			case jx.Null:
				return d.Null()
			case jx.Array:
			default:
				return f.mismatch(d, name, "array")
			}
			req.Flavors = make([]order.Flavor, 0)
			i := 0
			return d.Arr(func(d *jx.Decoder) error {
				elem := fmt.Sprintf("flavors[%d]", i)
				i++
				if d.Next() != jx.String {
					return f.mismatch(d, elem, "string")
				}
				v, err := d.Str()
				if err != nil {
					return err
				}
				req.Flavors = append(req.Flavors, order.Flavor(v))
				return nil
			})
		case "milk":
			v, ok, err := f.optStr(d, name)
			if ok {
				milk := order.Milk(v)
				req.Milk = &milk
			}
			return err
		case "extra_shot":
			v, ok, err := f.optInt(d, name)
			if ok {
				req.ExtraShots = &v
			}
			return err
		case "special_instructions":
			v, ok, err := f.optStr(d, name)
			if ok {
				req.SpecialInstructions = &v
			}
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return order.Request{}, nil, errors.Wrap(err, "decode order request")
	}
	return req, f.fields, nil
}

// decodeStatusRequest decodes a status change. Other fields are ignored.
func decodeStatusRequest(data []byte) (order.Status, []validate.FieldError, error) {
	if err := syntax(data); err != nil {
		return "", nil, err
	}

	var (
		status order.Status
		f      fieldDecoder
	)
	d := jx.DecodeBytes(data)
	if ok, err := f.object(d); !ok {
		return "", f.fields, err
	}
	err := d.ObjBytes(func(d *jx.Decoder, k []byte) error {
		if string(k) != "status" {
			return d.Skip()
		}
		v, _, err := f.optStr(d, "status")
		status = order.Status(v)
		return err
	})
	if err != nil {
		return "", nil, errors.Wrap(err, "decode status request")
	}
	return status, f.fields, nil
}

// mergeFieldErrors reports type mismatches found while decoding together
// with rule violations of the remaining fields.
func mergeFieldErrors(decoded []validate.FieldError, err error) *order.ValidationError {
	out := &order.ValidationError{Fields: decoded}
	var vErr *order.ValidationError
	if !errors.As(err, &vErr) {
		return out
	}
	for _, fe := range vErr.Fields {
		if !slices.ContainsFunc(decoded, func(d validate.FieldError) bool { return d.Name == fe.Name }) {
			out.Fields = append(out.Fields, fe)
		}
	}
	return out
}

func encodeOptStr(e *jx.Encoder, v *string) {
	if v == nil {
		e.Null()
		return
	}
	e.Str(*v)
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("order_id")
	e.Str(o.ID)
	e.FieldStart("size")
	e.Str(string(o.Size))
	e.FieldStart("coffee_type")
	e.Str(string(o.CoffeeType))
	e.FieldStart("flavors")
	e.ArrStart()
	for _, f := range o.Flavors {
		e.Str(string(f))
	}
	e.ArrEnd()
	e.FieldStart("milk")
	if o.Milk != nil {
		e.Str(string(*o.Milk))
	} else {
		e.Null()
	}
	e.FieldStart("extra_shot")
	if o.ExtraShots != nil {
		e.Int(*o.ExtraShots)
	} else {
		e.Null()
	}
	e.FieldStart("special_instructions")
	encodeOptStr(e, o.SpecialInstructions)
	e.FieldStart("estimated_price")
	e.Float64(o.Price.InexactFloat64())
	e.FieldStart("estimated_prep_time")
	e.Int(o.PrepTime)
	e.FieldStart("order_time")
	ogenjson.EncodeDateTime(e, o.CreatedAt)
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.ObjEnd()
}

func encodeOrders(e *jx.Encoder, orders []order.Order) {
	e.ArrStart()
	for _, o := range orders {
		encodeOrder(e, o)
	}
	e.ArrEnd()
}

func encodeStatusUpdate(e *jx.Encoder, u *order.StatusUpdate) {
	e.ObjStart()
	e.FieldStart("order_id")
	e.Str(u.OrderID)
	e.FieldStart("status")
	e.Str(string(u.Status))
	e.FieldStart("estimated_ready_time")
	if u.EstimatedReadyAt != nil {
		ogenjson.EncodeDateTime(e, *u.EstimatedReadyAt)
	} else {
		e.Null()
	}
	e.ObjEnd()
}

func encodeStrings[T ~string](e *jx.Encoder, values []T) {
	e.ArrStart()
	for _, v := range values {
		e.Str(string(v))
	}
	e.ArrEnd()
}

func encodeMenu(e *jx.Encoder, m order.Menu) {
	e.ObjStart()
	e.FieldStart("sizes")
	encodeStrings(e, m.Sizes)
	e.FieldStart("coffee_types")
	encodeStrings(e, m.CoffeeTypes)
	e.FieldStart("flavors")
	encodeStrings(e, m.Flavors)
	e.FieldStart("milk_types")
	encodeStrings(e, m.MilkTypes)
	e.FieldStart("max_extra_shots")
	e.Int(m.MaxExtraShots)
	e.FieldStart("max_flavors")
	e.Int(m.MaxFlavors)
	e.ObjEnd()
}

func encodeHealth(e *jx.Encoder, now time.Time, total int) {
	e.ObjStart()
	e.FieldStart("status")
	e.Str("healthy")
	e.FieldStart("timestamp")
	ogenjson.EncodeDateTime(e, now)
	e.FieldStart("total_orders")
	e.Int(total)
	e.ObjEnd()
}

func encodeMessage(e *jx.Encoder, fields ...string) {
	e.ObjStart()
	for i := 0; i+1 < len(fields); i += 2 {
		e.FieldStart(fields[i])
		e.Str(fields[i+1])
	}
	e.ObjEnd()
}

func encodeError(e *jx.Encoder, code int, msg string, fields []validate.FieldError) {
	e.ObjStart()
	e.FieldStart("code")
	e.Int(code)
	e.FieldStart("message")
	e.Str(msg)
	if len(fields) > 0 {
		e.FieldStart("fields")
		e.ArrStart()
		for _, f := range fields {
			e.ObjStart()
			e.FieldStart("name")
			e.Str(f.Name)
			e.FieldStart("error")
			e.Str(f.Error.Error())
			e.ObjEnd()
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

// writeJSON encodes a response body with a pooled encoder and writes it.
func writeJSON(w http.ResponseWriter, code int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// Best effort: status is already written.
	_, _ = w.Write(e.Bytes())
}
