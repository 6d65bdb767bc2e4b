package commands_test

import (
	"testing"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateCourierCommand_ValidInput(t *testing.T) {
	// Arrange
	name := "Kofi Mensah"
	phone := "+22890000001"
	position := point(t, 6.1319, 1.2228)

	// Act
	cmd, err := commands.NewCreateCourierCommand(name, phone, &position)

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, cmd)
	assert.Equal(t, name, cmd.Name())
	assert.Equal(t, phone, cmd.Phone())
	require.NotNil(t, cmd.Position())
	assert.Equal(t, position, *cmd.Position())
	assert.NotZero(t, cmd.CourierID())

	// Verify the courier ID is valid
	require.NoError(t, cmd.CourierID().Validate())
	require.NoError(t, cmd.Validate())
}

func TestNewCreateCourierCommand_PositionIsOptional(t *testing.T) {
	// Act
	cmd, err := commands.NewCreateCourierCommand("Kofi Mensah", "+22890000001", nil)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, cmd.Position())
}

func TestNewCreateCourierCommand_TrimsInput(t *testing.T) {
	// Act
	cmd, err := commands.NewCreateCourierCommand("  Kofi  ", " +22890000001 ", nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Kofi", cmd.Name())
	assert.Equal(t, "+22890000001", cmd.Phone())
}

func TestNewCreateCourierCommand_RequiredFields(t *testing.T) {
	testCases := []struct {
		name        string
		courierName string
		phone       string
	}{
		{name: "empty name", courierName: "", phone: "+22890000001"},
		{name: "blank name", courierName: "   ", phone: "+22890000001"},
		{name: "empty phone", courierName: "Kofi", phone: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, err := commands.NewCreateCourierCommand(tc.courierName, tc.phone, nil)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		})
	}
}

func TestNewCreateCourierCommand_InvalidPosition_ZeroValue(t *testing.T) {
	// Arrange
	var invalid kernel.GeoPoint // zero value

	// Act
	_, err := commands.NewCreateCourierCommand("Kofi", "+22890000001", &invalid)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCreateCourierCommand_MultipleCombinedErrors(t *testing.T) {
	// Act
	_, err := commands.NewCreateCourierCommand("", "", nil)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "phone")
}

func TestCreateCourierCommand_ZeroValueIsNotConstructed(t *testing.T) {
	var cmd commands.CreateCourierCommand

	err := cmd.Validate()

	require.ErrorIs(t, err, commands.ErrCreateCourierCommandIsNotConstructed)
}

func TestNewCreateCourierCommand_GeneratesUniqueIDs(t *testing.T) {
	cmd1, err := commands.NewCreateCourierCommand("Courier 1", "+22890000001", nil)
	require.NoError(t, err)
	cmd2, err := commands.NewCreateCourierCommand("Courier 2", "+22890000002", nil)
	require.NoError(t, err)

	assert.NotEqual(t, cmd1.CourierID(), cmd2.CourierID())
}
