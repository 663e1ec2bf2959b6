package graphql

// Operations used by the coordinator.
const (
	LoginMutation = `mutation Login($input: LoginInput!) {
  login(input: $input) {
    token
    refreshToken
    user { id username role email }
  }
}`

	RefreshTokenMutation = `mutation RefreshToken($refreshToken: String!) {
  refreshToken(refreshToken: $refreshToken) {
    token
    refreshToken
  }
}`

	LogoutMutation = `mutation Logout($refreshToken: String!) {
  logout(refreshToken: $refreshToken)
}`

	MeQuery = `query Me {
  me { id username role email }
}`

	CreateSourceChannelMutation = `mutation CreateSourceChannel($input: CreateSourceChannelInput!) {
  createSourceChannel(input: $input) {
    id
    youtubeUrl
    channelName
    contentType
  }
}`
)
