package walletdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/payflux/payflux/internal/domain"
	"github.com/payflux/payflux/pkg/moneypkg"
	"github.com/payflux/payflux/pkg/randompkg"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("cpfcnpj", ValidDocument); err != nil {
			panic(err)
		}
	}

	os.Exit(m.Run())
}

func testRouter(service Service) *gin.Engine {
	handler := NewHandler(service)

	router := gin.New()
	router.POST("/v1/api/wallet/create", handler.Create)
	router.GET("/v1/api/wallet/find/:id", handler.Get)
	router.PUT("/v1/api/wallet/update/:id", handler.Update)
	router.DELETE("/v1/api/wallet/delete/:id", handler.Delete)
	router.POST("/v1/api/wallet/deposit/:id", handler.Deposit)
	router.POST("/v1/api/wallet/withdraw/:id", handler.Withdraw)

	return router
}

func randomWallet() domain.Wallet {
	return domain.Wallet{
		ID:        int64(randompkg.Intn(1000)) + 1,
		FullName:  randompkg.FullName(),
		Document:  randompkg.Document(),
		Email:     randompkg.Email(),
		Balance:   randompkg.MoneyBetween(0, 1000),
		Version:   0,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func TestCreate(t *testing.T) {
	wallet := randomWallet()
	password := randompkg.String(10)

	testCases := []struct {
		name           string
		requestBody    gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"full_name": wallet.FullName,
				"document":  wallet.Document,
				"email":     wallet.Email,
				"password":  password,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(),
						gomock.Eq(wallet.FullName),
						gomock.Eq(wallet.Document),
						gomock.Eq(wallet.Email),
						gomock.Eq(password)).
					Times(1).
					Return(wallet, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "InvalidDocument",
			requestBody: gin.H{
				"full_name": wallet.FullName,
				"document":  "123.456.789-00",
				"email":     wallet.Email,
				"password":  password,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "ShortPassword",
			requestBody: gin.H{
				"full_name": wallet.FullName,
				"document":  wallet.Document,
				"email":     wallet.Email,
				"password":  "abc",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "DocumentAlreadyExists",
			requestBody: gin.H{
				"full_name": wallet.FullName,
				"document":  wallet.Document,
				"email":     wallet.Email,
				"password":  password,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Wallet{}, domain.ErrDocumentAlreadyExists)
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/v1/api/wallet/create", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			testRouter(service).ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatusCode, rec.Code)

			if tc.wantStatusCode == http.StatusCreated {
				var res struct {
					Data struct {
						Wallet walletResponse `json:"wallet"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
				require.Equal(t, wallet.ID, res.Data.Wallet.ID)
				require.Equal(t, wallet.Balance.String(), res.Data.Wallet.Balance)
				// The hashed password must never appear in a response.
				require.NotContains(t, rec.Body.String(), "password")
			}
		})
	}
}

func TestGet(t *testing.T) {
	wallet := randomWallet()

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "OK",
			url:  fmt.Sprintf("/v1/api/wallet/find/%d", wallet.ID),
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(wallet.ID)).
					Times(1).
					Return(wallet, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "NotFound",
			url:  fmt.Sprintf("/v1/api/wallet/find/%d", wallet.ID),
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(wallet.ID)).
					Times(1).
					Return(domain.Wallet{}, domain.ErrWalletNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "InvalidID",
			url:  "/v1/api/wallet/find/0",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rec := httptest.NewRecorder()

			testRouter(service).ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatusCode, rec.Code)
		})
	}
}

func TestDeposit(t *testing.T) {
	wallet := randomWallet()
	amount := moneypkg.MustFromString("50.00")

	testCases := []struct {
		name           string
		requestBody    gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name:        "OK",
			requestBody: gin.H{"amount": "50.00"},
			buildStubs: func(service *MockService) {
				credited := wallet
				credited.Balance = wallet.Balance.Add(amount)

				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(wallet.ID), gomock.Eq(amount)).
					Times(1).
					Return(credited, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "MalformedAmount",
			requestBody: gin.H{"amount": "fifty"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "VersionConflict",
			requestBody: gin.H{"amount": "50.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(wallet.ID), gomock.Eq(amount)).
					Times(1).
					Return(domain.Wallet{}, domain.ErrVersionConflict)
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			url := fmt.Sprintf("/v1/api/wallet/deposit/%d", wallet.ID)
			req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			rec := httptest.NewRecorder()

			testRouter(service).ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatusCode, rec.Code)
		})
	}
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallet := randomWallet()

	service := NewMockService(ctrl)
	service.EXPECT().
		Withdraw(gomock.Any(), gomock.Eq(wallet.ID), gomock.Any()).
		Times(1).
		Return(domain.Wallet{}, domain.ErrInsufficientBalance)

	body, err := json.Marshal(gin.H{"amount": "999999.00"})
	require.NoError(t, err)

	url := fmt.Sprintf("/v1/api/wallet/withdraw/%d", wallet.ID)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	rec := httptest.NewRecorder()

	testRouter(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete(t *testing.T) {
	wallet := randomWallet()

	testCases := []struct {
		name           string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "OK",
			buildStubs: func(service *MockService) {
				service.EXPECT().Delete(gomock.Any(), gomock.Eq(wallet.ID)).Times(1).Return(nil)
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name: "Referenced",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Delete(gomock.Any(), gomock.Eq(wallet.ID)).
					Times(1).
					Return(domain.ErrWalletReferenced)
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			url := fmt.Sprintf("/v1/api/wallet/delete/%d", wallet.ID)
			req := httptest.NewRequest(http.MethodDelete, url, nil)
			rec := httptest.NewRecorder()

			testRouter(service).ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatusCode, rec.Code)
		})
	}
}
