package bind

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

func setField(f reflect.Value, vals []string) error {
	last := strings.TrimSpace(vals[len(vals)-1])
	switch f.Kind() {
	case reflect.String:
		f.SetString(last)
	case reflect.Bool:
		if last == "" {
			f.SetBool(true) // ?rows
			return nil
		}
		b, err := strconv.ParseBool(last)
		if err != nil {
			return fmt.Errorf("not a boolean")
		}
		f.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(last, 10, f.Type().Bits())
		if err != nil {
			return fmt.Errorf("not an integer")
		}
		f.SetInt(n)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(last, f.Type().Bits())
		if err != nil {
			return fmt.Errorf("not a number")
		}
		f.SetFloat(x)
	case reflect.Slice:
		if f.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported list type %s", f.Type())
		}
		var out []string
		for _, v := range vals {
			for _, p := range strings.Split(v, ",") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
		}
		f.Set(reflect.ValueOf(out))
	default:
		return fmt.Errorf("unsupported type %s", f.Type())
	}
	return nil
}
