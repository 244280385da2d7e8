package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"warehouse-backend/internal/models"
)

func TestAssignOrders_EmptyAssignmentRejected(t *testing.T) {
	s := &OrderService{}

	_, err := s.AssignOrders(context.Background(), &models.AssignOrderRequest{OrderID: 1})
	assert.EqualError(t, err, "nothing to update")
}

func TestAssignOrders_MissingOrderIDRejected(t *testing.T) {
	s := &OrderService{}

	_, err := s.AssignOrders(context.Background(), &models.AssignOrderRequest{})
	assert.EqualError(t, err, "orderId or orderIds is required")
}
