package preferences

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// aliases lists, for each top-level key, the keys it shadows in the other layer.
// stayRange shadows days but not the reverse: an explicit days already wins in Normalize.
var aliases = map[string][]string{
	"departure_airport": {"from"},
	"from":              {"departure_airport"},
	"arrival_airport":   {"to"},
	"to":                {"arrival_airport"},
	"class":             {"travelClass"},
	"travelClass":       {"class"},
	"trip_type":         {"tripType"},
	"tripType":          {"trip_type"},
	"stayRange":         {"days"},
}

// Merge overlays override on defaults at the top level. Keys present in the
// override replace the defaults' value and every alias of that key, so the
// override wins whichever naming scheme each layer used. Non-object inputs
// count as empty.
func Merge(defaults, override []byte) []byte {
	base := decodeObject(defaults)
	top := decodeObject(override)

	shadowed := lo.FlatMap(lo.Keys(top), func(key string, _ int) []string {
		return aliases[key]
	})
	merged := lo.Assign(lo.OmitByKeys(base, shadowed), top)

	out, err := json.Marshal(merged)
	if err != nil {
		return []byte("{}")
	}
	return out
}

func decodeObject(raw []byte) map[string]json.RawMessage {
	obj := map[string]json.RawMessage{}
	if len(raw) == 0 || !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return obj
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return map[string]json.RawMessage{}
	}
	return obj
}

// airportKeys are the fields CoerceAirports rewrites
var airportKeys = []string{"departure_airport", "arrival_airport", "from", "to"}

// CoerceAirports rewrites bare airport code strings as {"code": CODE} objects.
// Objects already in place keep their label and get an upper-cased code.
func CoerceAirports(raw []byte) ([]byte, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, fmt.Errorf("preferences must be a JSON object")
	}

	out := raw
	for _, key := range airportKeys {
		v := gjson.GetBytes(out, key)
		var err error
		switch {
		case v.Type == gjson.String:
			out, err = sjson.SetBytes(out, key, map[string]string{"code": strings.ToUpper(v.String())})
		case v.IsObject() && v.Get("code").Type == gjson.String:
			out, err = sjson.SetBytes(out, key+".code", strings.ToUpper(v.Get("code").String()))
		}
		if err != nil {
			return nil, fmt.Errorf("coerce %s: %w", key, err)
		}
	}
	return out, nil
}
