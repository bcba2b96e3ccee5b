package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/domain"
)

func TestStruct_CollectsAllViolations(t *testing.T) {
	req := require.New(t)

	err := Struct(domain.MessageRequest{Type: "shout"})
	req.Error(err)

	verr, ok := err.(*Error)
	req.True(ok)

	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	req.True(fields["To"])
	req.True(fields["Text"])
	req.True(fields["Type"])
	req.Len(verr.Fields, 3)
}

func TestStruct_ValidPayloads(t *testing.T) {
	req := require.New(t)

	req.NoError(Struct(domain.JoinRequest{Name: "Alice"}))
	req.NoError(Struct(domain.MessageRequest{To: domain.Broadcast, Text: "hi", Type: domain.TypeMessage}))
	req.NoError(Struct(domain.MessageRequest{To: "Bob", Text: "psst", Type: domain.TypePrivate}))
}

func TestStruct_RejectsStatusTypeFromClients(t *testing.T) {
	req := require.New(t)

	err := Struct(domain.MessageRequest{To: domain.Broadcast, Text: "x", Type: domain.TypeStatus})
	req.Error(err)
	req.True(IsError(err))
}
