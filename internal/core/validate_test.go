package core

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mavgen/internal/types"
)

func validDialect() *types.Dialect {
	return testDialect("minimal", nil,
		[]types.Enum{{
			Name: "MAV_TYPE",
			Entries: []types.EnumEntry{
				{Value: 0, Name: "MAV_TYPE_GENERIC"},
			},
		}},
		[]types.Message{{
			ID:   0,
			Name: "HEARTBEAT",
			Fields: []types.MessageField{
				{Type: "uint8_t", Name: "type"},
			},
		}})
}

func TestValidateDialect(t *testing.T) {
	validator := NewDialectValidator()
	require.NoError(t, validator.ValidateDialect(context.Background(), validDialect()))
}

func TestValidateDialectRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *types.Dialect)
	}{
		{
			name: "enum without entries",
			mutate: func(d *types.Dialect) {
				enum := d.Enums["MAV_TYPE"]
				enum.Entries = nil
				d.Enums["MAV_TYPE"] = enum
			},
		},
		{
			name: "unnamed enum entry",
			mutate: func(d *types.Dialect) {
				enum := d.Enums["MAV_TYPE"]
				enum.Entries[0].Name = ""
				d.Enums["MAV_TYPE"] = enum
			},
		},
		{
			name: "repeated entry name",
			mutate: func(d *types.Dialect) {
				enum := d.Enums["MAV_TYPE"]
				enum.Entries = append(enum.Entries, types.EnumEntry{Value: 1, Name: "MAV_TYPE_GENERIC"})
				d.Enums["MAV_TYPE"] = enum
			},
		},
		{
			name: "message without name",
			mutate: func(d *types.Dialect) {
				msg := d.Messages[0]
				msg.Name = ""
				d.Messages[0] = msg
			},
		},
		{
			name: "negative message id",
			mutate: func(d *types.Dialect) {
				msg := d.Messages[0]
				msg.ID = -1
				d.Messages[0] = msg
			},
		},
		{
			name: "field without type",
			mutate: func(d *types.Dialect) {
				msg := d.Messages[0]
				msg.Fields[0].Type = ""
				d.Messages[0] = msg
			},
		},
	}
	validator := NewDialectValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialect := validDialect()
			tt.mutate(dialect)
			err := validator.ValidateDialect(context.Background(), dialect)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}

func TestValidateDialectToleratesForeignEnumRefs(t *testing.T) {
	dialect := validDialect()
	msg := dialect.Messages[0]
	foreign := "MAV_CMD"
	msg.Fields[0].Enum = &foreign
	dialect.Messages[0] = msg

	// Cross-dialect references resolve at emission time; validation
	// only logs them.
	require.NoError(t, NewDialectValidator().ValidateDialect(context.Background(), dialect))
}
