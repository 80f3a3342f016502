package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/metrics --output domain/metrics --outpkg metricsmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/alias --output domain/alias --outpkg aliasmock --filename repository_mock.go
