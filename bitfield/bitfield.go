// Package bitfield packs annotated struct fields into a single integer.
// It is adapted from the teacher loader's bitfield helper (itself a
// simplified cut of golang.org/x/text/internal/gen/bitfield), which the
// teacher used to pack PageFlags into a uint32 page-table entry. Here the
// same mechanism packs a pmm.Range's type and flags into the single
// ABI-stable uint32 tag spec §6 requires the finalized map to carry.
package bitfield

import (
	"fmt"
	"reflect"
)

// Config determines settings for packing.
type Config struct {
	// NumBits fixes the maximum allowed bits for the integer
	// representation. Zero means no limit is enforced.
	NumBits uint
}

// Pack packs the annotated bit ranges of struct x into an integer. Only
// fields with a `bitfield:",<n>"` tag are packed, least-significant field
// first, matching the order the teacher's PageFlags used.
func Pack(x interface{}, c *Config) (packed uint64, err error) {
	if c == nil {
		c = &Config{NumBits: 64}
	}

	v := reflect.ValueOf(x)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return 0, fmt.Errorf("bitfield: Pack: expected struct, got %v", v.Kind())
	}

	t := v.Type()
	var bitOffset uint
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("bitfield")
		if tag == "" {
			continue
		}

		var bits uint
		if _, err := fmt.Sscanf(tag, ",%d", &bits); err != nil {
			return 0, fmt.Errorf("bitfield: Pack: invalid bitfield tag %q on field %s", tag, field.Name)
		}
		if bits == 0 {
			continue
		}

		fieldValue := v.Field(i)
		var fieldBits uint64
		switch fieldValue.Kind() {
		case reflect.Bool:
			if fieldValue.Bool() {
				fieldBits = 1
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			fieldBits = fieldValue.Uint()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			val := fieldValue.Int()
			if val < 0 {
				return 0, fmt.Errorf("bitfield: Pack: negative value %d for field %s", val, field.Name)
			}
			fieldBits = uint64(val)
		default:
			return 0, fmt.Errorf("bitfield: Pack: unsupported field type %v for field %s", fieldValue.Kind(), field.Name)
		}

		maxValue := uint64(1)<<bits - 1
		if fieldBits > maxValue {
			return 0, fmt.Errorf("bitfield: Pack: value %d exceeds %d bits for field %s", fieldBits, bits, field.Name)
		}

		packed |= fieldBits << bitOffset
		bitOffset += bits
	}

	if c.NumBits > 0 && bitOffset > c.NumBits {
		return 0, fmt.Errorf("bitfield: Pack: total bits %d exceeds NumBits %d", bitOffset, c.NumBits)
	}
	return packed, nil
}

// Unpack reverses Pack, writing each tagged field of dst from the
// corresponding bits of packed. dst must be a pointer to a struct with the
// same bitfield tags Pack used.
func Unpack(packed uint64, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bitfield: Unpack: dst must be a pointer to struct")
	}
	v = v.Elem()
	t := v.Type()

	var bitOffset uint
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("bitfield")
		if tag == "" {
			continue
		}
		var bits uint
		if _, err := fmt.Sscanf(tag, ",%d", &bits); err != nil {
			return fmt.Errorf("bitfield: Unpack: invalid bitfield tag %q on field %s", tag, field.Name)
		}
		if bits == 0 {
			continue
		}

		mask := uint64(1)<<bits - 1
		fieldBits := (packed >> bitOffset) & mask
		bitOffset += bits

		fieldValue := v.Field(i)
		switch fieldValue.Kind() {
		case reflect.Bool:
			fieldValue.SetBool(fieldBits != 0)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			fieldValue.SetUint(fieldBits)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fieldValue.SetInt(int64(fieldBits))
		default:
			return fmt.Errorf("bitfield: Unpack: unsupported field type %v for field %s", fieldValue.Kind(), field.Name)
		}
	}
	return nil
}
