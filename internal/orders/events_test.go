package orders

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
)

func TestShippingAddressOf(t *testing.T) {
	street := "Av. 25 de Setembro"
	number := "55"
	city := "Beira"
	country := "Moçambique"
	blank := "  "

	user := &models.User{Street: &street, Number: &number, City: &city, Country: &country, State: &blank}
	require.Equal(t, "Av. 25 de Setembro, 55, Beira, Moçambique", ShippingAddressOf(user))

	require.Equal(t, "Endereço não informado", ShippingAddressOf(&models.User{}))
	require.Equal(t, "Endereço não informado", ShippingAddressOf(nil))
}
