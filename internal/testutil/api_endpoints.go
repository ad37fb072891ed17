package testutil

const (
	APIBaseURL            = "/api/v1"
	HealthCheckEndpoint   = APIBaseURL + "/health"
	LoginEndpoint         = APIBaseURL + "/auth/login"
	RegisterEndpoint      = APIBaseURL + "/auth/register"
	RefreshTokenEndpoint  = APIBaseURL + "/auth/refresh"
	LogoutEndpoint        = APIBaseURL + "/auth/logout"
	ProfileEndpoint       = APIBaseURL + "/user/profile"
	UpdateProfileEndpoint = APIBaseURL + "/user/update"
	SettingsEndpoint      = APIBaseURL + "/user/settings"
	PropertiesEndpoint    = APIBaseURL + "/properties"
	PropertyEndpoint      = APIBaseURL + "/properties/" // Append property ID dynamically
	UploadEndpoint        = APIBaseURL + "/properties/upload"
	ListingsEndpoint      = APIBaseURL + "/listings"
	ListingEndpoint       = APIBaseURL + "/listings/" // Append property ID dynamically
)
