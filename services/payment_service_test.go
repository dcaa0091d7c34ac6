package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/venmo-login/authenticator/venmo"
	"github.com/blogem/venmo-login/models"
	"github.com/blogem/venmo-login/repositories/mocks"
)

// PaymentServiceTestSuite is a test suite for the Venmo payment proxy
type PaymentServiceTestSuite struct {
	suite.Suite
	server       *httptest.Server
	mockUserRepo *mocks.MockUserRepository
	service      PaymentService
	lastForm     map[string]string
	lastAuth     string
}

// SetupTest starts a fake payments endpoint
func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.lastForm = map[string]string{}
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.Require().NoError(r.ParseForm())
		for key := range r.PostForm {
			suite.lastForm[key] = r.PostForm.Get(key)
		}
		suite.lastAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("amount") == "9999" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"insufficient funds","code":13006}}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"data": {
				"balance": "7.50",
				"payment": {
					"id": "1322585332520059421",
					"status": "settled",
					"action": "pay",
					"amount": 5,
					"note": "Pizza",
					"target": {"type": "user", "user": {"display_name": "Alice"}}
				}
			}
		}`))
	}))

	suite.mockUserRepo = mocks.NewMockUserRepository(suite.T())
	suite.service = NewPaymentService(suite.mockUserRepo, suite.server.URL, suite.server.Client())
}

func (suite *PaymentServiceTestSuite) TearDownTest() {
	suite.server.Close()
}

// TestPay_Success tests that a payment is forwarded and the balance stored
func (suite *PaymentServiceTestSuite) TestPay_Success() {
	user := &models.User{ID: 1, AccessToken: "at", Balance: "12.50"}
	suite.mockUserRepo.EXPECT().Update(context.Background(), user).Return(nil)

	// Act
	receipt, err := suite.service.Pay(context.Background(), user, &models.PaymentForm{
		UserID: "42",
		Note:   "Pizza",
		Amount: "5",
	})

	// Assert
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "1322585332520059421", receipt.ID)
	assert.Equal(suite.T(), "settled", receipt.Status)
	assert.Equal(suite.T(), "pay", receipt.Action)
	assert.Equal(suite.T(), "5", receipt.Amount)
	assert.Equal(suite.T(), "Alice", receipt.Recipient)
	assert.Equal(suite.T(), "7.50", user.Balance)

	assert.Equal(suite.T(), "at", suite.lastForm["access_token"])
	assert.Equal(suite.T(), "42", suite.lastForm["user_id"])
	assert.Equal(suite.T(), "Bearer at", suite.lastAuth)
}

// TestPay_APIError tests that Venmo errors surface as APIError
func (suite *PaymentServiceTestSuite) TestPay_APIError() {
	user := &models.User{ID: 1, AccessToken: "at"}

	receipt, err := suite.service.Pay(context.Background(), user, &models.PaymentForm{
		Phone:  "15555555555",
		Note:   "Rent",
		Amount: "9999",
	})

	assert.Nil(suite.T(), receipt)
	var apiErr *venmo.APIError
	suite.Require().ErrorAs(err, &apiErr)
	assert.Equal(suite.T(), 13006, apiErr.Code)
}

// TestPay_ValidationFailure tests that invalid forms never reach Venmo
func (suite *PaymentServiceTestSuite) TestPay_ValidationFailure() {
	user := &models.User{ID: 1, AccessToken: "at"}

	receipt, err := suite.service.Pay(context.Background(), user, &models.PaymentForm{Amount: "5"})

	assert.Nil(suite.T(), receipt)
	assert.ErrorContains(suite.T(), err, "validation failed")
	assert.Empty(suite.T(), suite.lastForm)
}

// TestPay_NotLinked tests that users without a Venmo token are rejected
func (suite *PaymentServiceTestSuite) TestPay_NotLinked() {
	_, err := suite.service.Pay(context.Background(), &models.User{ID: 1}, &models.PaymentForm{})
	assert.ErrorIs(suite.T(), err, ErrNotLinked)

	_, err = suite.service.Pay(context.Background(), nil, &models.PaymentForm{})
	assert.ErrorIs(suite.T(), err, ErrNotLinked)
}

// TestPaymentServiceTestSuite runs the test suite
func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func TestNewPaymentService_DefaultURL(t *testing.T) {
	service := NewPaymentService(nil, "", nil).(*paymentService)
	assert.Equal(t, DefaultPaymentsURL, service.paymentsURL)
}
