package requests

type FetchPendingWithdrawalsRequest struct {
	Limit uint64 `query:"limit" default:"50" validate:"gt=0,lte=500"`
}
