package handler

import (
	"github.com/studiohub/onboarding-system/internal/core/domain"
	"github.com/studiohub/onboarding-system/internal/core/ports"
)

func toAddressInput(a addressFields) ports.AddressInput {
	return ports.AddressInput{
		PostalCode: a.PostalCode,
		Street:     a.Street,
		Number:     a.Number,
		Complement: a.Complement,
		District:   a.District,
		City:       a.City,
		Region:     a.Region,
		Lat:        a.Latitude,
		Lng:        a.Longitude,
	}
}

func toClientInput(req clientRegisterRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Kind:     domain.KindClient,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		FiscalID: req.FiscalID,
		Address:  toAddressInput(req.addressFields),
	}
}

func toArtistInput(req artistRegisterRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Kind:       domain.KindArtist,
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Phone:      req.Phone,
		FiscalID:   req.FiscalID,
		ArtistType: req.ArtistType,
		Address:    toAddressInput(req.addressFields),
	}
}

func toStudioInput(req studioRegisterRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Kind:      domain.KindStudio,
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Phone:     req.Phone,
		FiscalID:  req.FiscalID,
		LegalName: req.LegalName,
		ImageURL:  req.ImageURL,
		Address:   toAddressInput(req.addressFields),
	}
}
