package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	client := actor(t, kernel.RoleClient)

	cmd, err := commands.NewCreateOrderCommand(client, client.ID(), at(10, 0), 90*time.Minute)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, client.ID(), cmd.ClientID())
	assert.Equal(t, at(10, 0), cmd.PickupAt())
	assert.Equal(t, 90*time.Minute, cmd.EstimatedDuration())
}

func TestNewCreateOrderCommand_InvalidClientID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(actor(t, kernel.RoleDispatcher), kernel.UUID{}, at(10, 0), time.Hour)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_MissingPickupTime(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(actor(t, kernel.RoleDispatcher), kernel.NewUUID(), time.Time{}, time.Hour)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCreateOrderCommand_DurationOutOfRange(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(actor(t, kernel.RoleDispatcher), kernel.NewUUID(), at(10, 0), time.Minute)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewCreateOrderCommand(actor(t, kernel.RoleDispatcher), kernel.NewUUID(), at(10, 0), 25*time.Hour)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestCreateOrderCommand_NotConstructedViaConstructor(t *testing.T) {
	cmd := commands.CreateOrderCommand{}
	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
