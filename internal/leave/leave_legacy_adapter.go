package leave

import (
	"encoding/json"
	"fmt"
	"strings"

	leaveerrors "markpedia-os/internal/leave/errors"

	"github.com/shopspring/decimal"
)

// HRApprovePayload is the canonical form of a positional hr-approve call.
type HRApprovePayload struct {
	ID            string
	HRID          string
	Remarks       *string
	BalanceBefore *decimal.Decimal
	BalanceAfter  *decimal.Decimal
	LeaveCategory *string
	HRNotes       *string
}

// ToRequest converts the payload into the structured hr-approve body.
func (p HRApprovePayload) ToRequest() HRApproveRequest {
	req := HRApproveRequest{
		HRID:          p.HRID,
		BalanceBefore: p.BalanceBefore,
		BalanceAfter:  p.BalanceAfter,
	}
	if p.Remarks != nil {
		req.Remarks = *p.Remarks
	}
	if p.LeaveCategory != nil {
		req.LeaveCategory = strings.ToUpper(*p.LeaveCategory)
	}
	if p.HRNotes != nil {
		req.HRNotes = *p.HRNotes
	}
	return req
}

type legacyArg struct {
	pos    int
	num    *decimal.Decimal
	str    *string
	absent bool
}

// NormalizeHRApproveArgs rebuilds a canonical payload from the historical
// positional call shapes hrApprove(id, hrId, ...rest). args[0] is the request
// id and args[1] the HR approver id. For the rest:
//
//   - numeric third argument: it is balanceBefore. A numeric fourth is
//     balanceAfter and later strings are remarks then hrNotes. A string
//     fourth is remarks and a following numeric is balanceAfter.
//   - string third argument: it is remarks. Later numerics fill balanceBefore
//     then balanceAfter, later strings fill leaveCategory then hrNotes.
//
// Numeric means a JSON number, a Go integer or float, or a decimal. A numeric
// looking string stays a string. JSON null leaves its position empty.
// Arguments that fit no slot are an error rather than being dropped.
func NormalizeHRApproveArgs(args ...any) (HRApprovePayload, error) {
	if len(args) < 2 {
		return HRApprovePayload{}, legacyArgsError("expected at least id and hr id")
	}

	id, ok := args[0].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return HRApprovePayload{}, legacyArgsError("argument 1 (id) must be a non-empty string")
	}
	hrID, ok := args[1].(string)
	if !ok || strings.TrimSpace(hrID) == "" {
		return HRApprovePayload{}, legacyArgsError("argument 2 (hr id) must be a non-empty string")
	}

	rest := make([]legacyArg, 0, len(args)-2)
	for i, raw := range args[2:] {
		a, err := classifyLegacyArg(i+3, raw)
		if err != nil {
			return HRApprovePayload{}, err
		}
		rest = append(rest, a)
	}

	p := HRApprovePayload{ID: id, HRID: hrID}
	if len(rest) == 0 {
		return p, nil
	}

	var err error
	if rest[0].num != nil {
		err = normalizeBalanceFirst(&p, rest)
	} else {
		err = normalizeRemarksFirst(&p, rest)
	}
	if err != nil {
		return HRApprovePayload{}, err
	}
	return p, nil
}

func normalizeBalanceFirst(p *HRApprovePayload, rest []legacyArg) error {
	p.BalanceBefore = rest[0].num
	if len(rest) == 1 {
		return nil
	}

	next := rest[1]
	switch {
	case next.num != nil:
		p.BalanceAfter = next.num
		return fillStrings(rest[2:], &p.Remarks, &p.HRNotes)
	case next.str != nil:
		p.Remarks = next.str
		tail := rest[2:]
		if len(tail) > 0 && tail[0].num != nil {
			p.BalanceAfter = tail[0].num
			tail = tail[1:]
		}
		return fillStrings(tail, &p.LeaveCategory, &p.HRNotes)
	default:
		return fillStrings(rest[2:], &p.Remarks, &p.HRNotes)
	}
}

func normalizeRemarksFirst(p *HRApprovePayload, rest []legacyArg) error {
	p.Remarks = rest[0].str

	numSlots := []**decimal.Decimal{&p.BalanceBefore, &p.BalanceAfter}
	strSlots := []**string{&p.LeaveCategory, &p.HRNotes}
	for _, a := range rest[1:] {
		switch {
		case a.absent:
		case a.num != nil:
			if len(numSlots) == 0 {
				return legacyArgsError(fmt.Sprintf("unexpected numeric argument %d", a.pos))
			}
			*numSlots[0] = a.num
			numSlots = numSlots[1:]
		case a.str != nil:
			if len(strSlots) == 0 {
				return legacyArgsError(fmt.Sprintf("unexpected string argument %d", a.pos))
			}
			*strSlots[0] = a.str
			strSlots = strSlots[1:]
		}
	}
	return nil
}

// fillStrings assigns the string arguments of rest to slots in order.
func fillStrings(rest []legacyArg, slots ...**string) error {
	for _, a := range rest {
		switch {
		case a.absent:
		case a.num != nil:
			return legacyArgsError(fmt.Sprintf("unexpected numeric argument %d", a.pos))
		default:
			if len(slots) == 0 {
				return legacyArgsError(fmt.Sprintf("unexpected string argument %d", a.pos))
			}
			*slots[0] = a.str
			slots = slots[1:]
		}
	}
	return nil
}

func classifyLegacyArg(pos int, raw any) (legacyArg, error) {
	a := legacyArg{pos: pos}
	if raw == nil {
		a.absent = true
		return a, nil
	}
	if s, ok := raw.(string); ok {
		a.str = &s
		return a, nil
	}
	n, ok := legacyNumber(raw)
	if !ok {
		return a, legacyArgsError(fmt.Sprintf("argument %d has unsupported type %T", pos, raw))
	}
	a.num = &n
	return a, nil
}

func legacyNumber(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Decimal{}, false
		}
		return *v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint:
		return decimal.NewFromInt(int64(v)), true
	case uint32:
		return decimal.NewFromInt(int64(v)), true
	}
	return decimal.Decimal{}, false
}

func legacyArgsError(reason string) error {
	return leaveerrors.ErrInvalidLegacyArguments.WithDetails(map[string]string{"reason": reason})
}
